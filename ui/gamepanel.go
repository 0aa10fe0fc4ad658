package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

const (
	infoPanelWidth = 26
	controlsHeight = 1
)

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box   *tview.TextView
	state engine.State
	moves []engine.Move
	ready bool
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetGame updates the panel with the current state and the full move list.
func (p *GameInfoPanel) SetGame(state engine.State, moves []engine.Move) {
	p.state = state
	p.moves = moves
	p.ready = true
	p.refresh()
}

// Text returns the rendered panel text, colour tags included.
func (p *GameInfoPanel) Text() string {
	return p.box.GetText(false)
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if !p.ready {
		p.box.SetText("")
		return
	}

	var text strings.Builder

	text.WriteString("[white::b]Game Info[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&text, "[white]Step:[-:-:-] %d / %d\n", p.state.Step, p.state.HistoryLen-1)
	switch p.state.Outcome {
	case engine.Won:
		fmt.Fprintf(&text, "[white]Result:[-:-:-] %s wins\n", p.state.Winner)
	case engine.Drawn:
		text.WriteString("[white]Result:[-:-:-] draw\n")
	default:
		fmt.Fprintf(&text, "[white]Turn:[-:-:-] %s\n", p.state.CurrentPlayer)
	}

	text.WriteString("\n[white::b]Moves[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	text.WriteString(p.moveLine(0, nil))
	for i := range p.moves {
		text.WriteString(p.moveLine(i+1, &p.moves[i]))
	}

	p.box.SetText(text.String())
}

// moveLine renders history entry step, produced by m (nil for the empty
// board). Entries past the current step are the redo branch and are dimmed.
func (p *GameInfoPanel) moveLine(step int, m *engine.Move) string {
	marker := " "
	if step == p.state.Step {
		marker = "[yellow]>[-]"
	}
	if m == nil {
		return fmt.Sprintf("%s[dimgray]%2d.[-] start\n", marker, step)
	}
	if step > p.state.Step {
		return fmt.Sprintf("%s[dimgray]%2d. %s %s[-]\n", marker, step, m.Player, posLabel(m.Pos))
	}
	return fmt.Sprintf("%s[dimgray]%2d.[-] %s %s\n", marker, step, playerTag(m.Player), posLabel(m.Pos))
}

func playerTag(c types.Cell) string {
	if c == types.PlayerO {
		return "[lightblue]O[-]"
	}
	return "[salmon]X[-]"
}

// CreateGameLayout creates the main game layout with board, controls and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	// Create the info panel
	infoPanel := NewGameInfoPanel()

	// Store panel reference in board for updates
	board.infoPanel = infoPanel
	board.keepFocus(infoPanel.Box().Box)
	board.keepFocus(hint.Box)
	board.refreshHint()

	// Board with its button row underneath
	boardCol := tview.NewFlex().SetDirection(tview.FlexRow)
	boardCol.AddItem(board.Box, 0, 1, true)
	boardCol.AddItem(board.controls.Box, controlsHeight, 0, false)

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(boardCol, 0, 1, true)                      // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), infoPanelWidth, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, compact status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()
	board.infoPanel = nil

	// Center board with flex spacers
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)           // left spacer
	centerRow.AddItem(board.Box, boardW, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)           // right spacer

	gameFrame.AddItem(centerRow, boardH, 0, true)                   // center row (fixed height)
	gameFrame.AddItem(board.controls.Box, controlsHeight, 0, false) // buttons stay reachable
	gameFrame.AddItem(nil, 0, 1, false)                             // bottom spacer
	gameFrame.AddItem(hint, 3, 0, false)
}
