// Package ui specifies custom controls for tview to play tic-tac-toe in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/config"
	"tictactoe-local/engine"
	"tictactoe-local/types"
)

// Board geometry in screen cells. Cells are separated by one-cell grid lines,
// and a column of row numbers sits left of the grid.
const (
	cellW   = 5
	cellH   = 3
	labelW  = 2
	gridW   = types.Size*cellW + types.Size - 1
	gridH   = types.Size*cellH + types.Size - 1
	boardW  = labelW + gridW
	boardH  = gridH + 1 // column letters below the grid
	noCoord = -1
)

// Style slots.
const (
	styleBoard = iota
	styleLine
	styleX
	styleO
	styleCursor
	styleWin
	styleLastPlayed
)

// gameController is the part of engine.Controller the board drives.
type gameController interface {
	ApplyMove(pos types.BoardPos) bool
	Previous() bool
	Next() bool
	JumpTo(step int) bool
	Reset()
	CanPrevious() bool
	CanNext() bool
	RenderCell(pos types.BoardPos) types.Cell
	State() engine.State
	Moves() []engine.Move
	OnStateChanged(fn engine.Listener)
}

type BoardUI struct {
	Box       *tview.Box
	app       *tview.Application
	game      gameController
	state     engine.State
	hint      *tview.TextView
	cfg       *config.Config
	selX      int
	selY      int
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	controls  *NavControls
	focusMode bool

	// top-left corner of the grid at the last draw
	gridX, gridY int
}

// NewBoard creates the board view and subscribes it to game. app may be nil,
// in which case redraws are left to the caller.
func NewBoard(app *tview.Application, game gameController, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:   tview.NewBox(),
		app:   app,
		game:  game,
		state: game.State(),
		hint:  hint,
		selX:  noCoord,
		selY:  noCoord,
		gridX: noCoord,
		gridY: noCoord,
	}
	board.controls = NewNavControls(game, board.requestDraw)
	board.keepFocus(board.controls.Box)
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	board.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		pos, ok := board.cellAt(event.Position())
		if !ok {
			return action, event
		}
		board.CellClicked(pos)
		return action, nil
	})
	game.OnStateChanged(board.onStateChanged)
	board.refreshHint()
	return board
}

// Controls returns the navigation buttons shown under the board.
func (g *BoardUI) Controls() *NavControls {
	return g.controls
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *BoardUI) IsFocusMode() bool {
	return g.focusMode
}

func (g *BoardUI) SelectedTile() *types.BoardPos {
	if g.selX == noCoord && g.selY == noCoord {
		return nil
	}
	return &types.BoardPos{X: g.selX, Y: g.selY}
}

func (g *BoardUI) MoveSelection(h, v int) {
	if g.state.Finished {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		if g.state.LastMove != nil {
			g.selX, g.selY = g.state.LastMove.X, g.state.LastMove.Y
		} else {
			g.selX, g.selY = types.Size/2, types.Size/2
		}
		return
	}
	next := types.BoardPos{X: g.selX + h, Y: g.selY + v}
	if !next.Valid() {
		return
	}
	g.selX, g.selY = next.X, next.Y
}

func (g *BoardUI) ResetSelection() {
	g.selX = noCoord
	g.selY = noCoord
}

// CellClicked forwards a cell selection to the game. The first click reveals
// the navigation controls even when the move itself is rejected.
func (g *BoardUI) CellClicked(pos types.BoardPos) bool {
	if !g.controls.Visible() {
		g.controls.Show()
		g.requestDraw()
	}
	return g.game.ApplyMove(pos)
}

// HandleKey processes board keys and returns nil for the ones it consumed.
func (g *BoardUI) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		g.MoveSelection(0, -1)
	case tcell.KeyDown:
		g.MoveSelection(0, 1)
	case tcell.KeyLeft:
		g.MoveSelection(-1, 0)
	case tcell.KeyRight:
		g.MoveSelection(1, 0)
	case tcell.KeyEnter:
		g.playSelection()
	case tcell.KeyHome:
		g.game.JumpTo(0)
	case tcell.KeyEnd:
		g.game.JumpTo(g.state.HistoryLen - 1)
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			g.MoveSelection(-1, 0)
		case 'j':
			g.MoveSelection(0, 1)
		case 'k':
			g.MoveSelection(0, -1)
		case 'l':
			g.MoveSelection(1, 0)
		case ' ':
			g.playSelection()
		case '[':
			g.game.Previous()
		case ']':
			g.game.Next()
		case 'r':
			g.game.Reset()
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (g *BoardUI) playSelection() {
	if sel := g.SelectedTile(); sel != nil {
		g.CellClicked(*sel)
	}
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // styleBoard
		tcell.PaletteColor(c.Theme.Colors.LineColor),     // styleLine
		tcell.PaletteColor(c.Theme.Colors.XColor),        // styleX
		tcell.PaletteColor(c.Theme.Colors.OColor),        // styleO
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // styleCursor
		tcell.PaletteColor(c.Theme.Colors.WinColorBG),    // styleWin
		tcell.PaletteColor(c.Theme.Colors.LastPlayedBG),  // styleLastPlayed
	}
	g.cfg = c
	g.refreshHint()
}

// onStateChanged runs synchronously after every committed transition.
func (g *BoardUI) onStateChanged(t engine.Transition, s engine.State) {
	g.state = s
	if t == engine.Restarted {
		g.controls.Hide()
		g.ResetSelection()
	}
	if s.Finished {
		g.ResetSelection()
	}
	g.controls.Refresh()
	g.refreshHint()
	g.requestDraw()
}

// keepFocus hands keyboard focus back to the board whenever b receives it,
// so clicking a panel never strands the board keys.
func (g *BoardUI) keepFocus(b *tview.Box) {
	b.SetFocusFunc(func() {
		if g.app != nil {
			g.app.SetFocus(g.Box)
		}
	})
}

func (g *BoardUI) requestDraw() {
	if g.app == nil {
		return
	}
	// Spawn goroutine to avoid deadlock when called from the event loop
	go g.app.QueueUpdateDraw(func() {})
}

// playerColor returns the palette color used for a mark.
func (g *BoardUI) playerColor(c types.Cell) tcell.Color {
	if c == types.PlayerO {
		return g.styles[styleO]
	}
	return g.styles[styleX]
}

func (g *BoardUI) symbol(c types.Cell) rune {
	s := g.cfg.Theme.Symbols.Empty
	switch c {
	case types.PlayerX:
		s = g.cfg.Theme.Symbols.X
	case types.PlayerO:
		s = g.cfg.Theme.Symbols.O
	}
	for _, r := range s {
		return r
	}
	return ' '
}

func (g *BoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetGame(g.state, g.game.Moves())
	}
	if g.hint == nil || g.cfg == nil {
		return
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	color := MenuColors.Label
	switch {
	case g.state.Winner != types.Empty:
		color = g.playerColor(g.state.Winner)
	case !g.state.Finished:
		color = g.playerColor(g.state.CurrentPlayer)
	}
	statusLine := fmt.Sprintf("  [#%06x::b]%s[-:-:-]\n", color.Hex(), engine.StatusText(g.state))
	controlsLine := tview.Escape("  hjkl/↑↓←→ move  ⏎ play  [ ] history  r reset  f focus  c colors  q quit")

	g.hint.SetText(statusLine + controlsLine)
}

func (g *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	// Center the board in the available area
	left := x + max(0, (width-boardW)/2)
	top := y + max(0, (height-boardH)/2)
	g.gridX, g.gridY = left+labelW, top

	winLine := map[types.BoardPos]bool{}
	if g.cfg.Theme.HighlightWinningLine {
		if line, ok := g.state.Board.WinningLine(); ok {
			for _, p := range line {
				winLine[p] = true
			}
		}
	}

	lineStyle := tcell.StyleDefault.Background(g.styles[styleBoard]).Foreground(g.styles[styleLine])
	drawGridLines(screen, lineStyle, g.gridX, g.gridY)

	for cy := 0; cy < types.Size; cy++ {
		for cx := 0; cx < types.Size; cx++ {
			pos := types.BoardPos{X: cx, Y: cy}
			cell := g.game.RenderCell(pos)

			bg := g.styles[styleBoard]
			switch {
			case cx == g.selX && cy == g.selY && g.cfg.Theme.DrawCursorBackground:
				bg = g.styles[styleCursor]
			case winLine[pos]:
				bg = g.styles[styleWin]
			case g.state.LastMove != nil && *g.state.LastMove == pos && g.cfg.Theme.DrawLastPlayedBackground:
				bg = g.styles[styleLastPlayed]
			}
			fg := g.styles[styleLine]
			if cell != types.Empty {
				fg = g.playerColor(cell)
			}
			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			if cell != types.Empty {
				style = style.Bold(true)
			}
			drawMarkCell(screen, style, g.symbol(cell), g.gridX+cx*(cellW+1), g.gridY+cy*(cellH+1))
		}
	}
	g.drawCoordinates(screen, left, top)

	return x, y, width, height
}

// cellAt maps a screen position to the board cell drawn there.
func (g *BoardUI) cellAt(sx, sy int) (types.BoardPos, bool) {
	if g.gridX == noCoord {
		return types.BoardPos{}, false
	}
	cx, okX := gridIndex(sx-g.gridX, cellW)
	cy, okY := gridIndex(sy-g.gridY, cellH)
	if !okX || !okY {
		return types.BoardPos{}, false
	}
	return types.BoardPos{X: cx, Y: cy}, true
}

// gridIndex converts an offset into the grid to a cell index along one axis.
// Offsets on grid lines or outside the grid have no cell.
func gridIndex(offset, span int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	i := offset / (span + 1)
	if i >= types.Size || offset%(span+1) == span {
		return 0, false
	}
	return i, true
}

// drawMarkCell fills one cell and puts r in its middle.
func drawMarkCell(s tcell.Screen, style tcell.Style, r rune, l, t int) {
	for dy := 0; dy < cellH; dy++ {
		for dx := 0; dx < cellW; dx++ {
			s.SetContent(l+dx, t+dy, ' ', nil, style)
		}
	}
	s.SetContent(l+cellW/2, t+cellH/2, r, nil, style)
}

// drawGridLines draws the two horizontal and two vertical separators.
func drawGridLines(s tcell.Screen, style tcell.Style, l, t int) {
	for dy := 0; dy < gridH; dy++ {
		for dx := 0; dx < gridW; dx++ {
			onV := dx%(cellW+1) == cellW
			onH := dy%(cellH+1) == cellH
			switch {
			case onV && onH:
				s.SetContent(l+dx, t+dy, '┼', nil, style)
			case onV:
				s.SetContent(l+dx, t+dy, '│', nil, style)
			case onH:
				s.SetContent(l+dx, t+dy, '─', nil, style)
			}
		}
	}
}

func (g *BoardUI) drawCoordinates(s tcell.Screen, left, top int) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.styles[styleCursor])
	lpHighlight := tcell.StyleDefault.Background(g.styles[styleLastPlayed])

	for i := 0; i < types.Size; i++ {
		colStyle, rowStyle := style, style
		if i == g.selX {
			colStyle = highlight
		} else if g.state.LastMove != nil && i == g.state.LastMove.X {
			colStyle = lpHighlight
		}
		if i == g.selY {
			rowStyle = highlight
		} else if g.state.LastMove != nil && i == g.state.LastMove.Y {
			rowStyle = lpHighlight
		}
		s.SetContent(g.gridX+i*(cellW+1)+cellW/2, top+gridH, rune('a'+i), nil, colStyle)
		s.SetContent(left, top+i*(cellH+1)+cellH/2, rune('1'+i), nil, rowStyle)
	}
}

// posLabel names a cell the way the coordinates are drawn, "a1" top left.
func posLabel(p types.BoardPos) string {
	return fmt.Sprintf("%c%d", 'a'+p.X, p.Y+1)
}
