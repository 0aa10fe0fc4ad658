package ui

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictactoe-local/config"
	"tictactoe-local/engine"
	"tictactoe-local/types"
)

const screenW, screenH = 40, 20

type testBoard struct {
	game   *engine.Controller
	board  *BoardUI
	hint   *tview.TextView
	cfg    *config.Config
	screen tcell.SimulationScreen
}

func newTestBoard(t *testing.T) *testBoard {
	t.Helper()
	game := engine.NewController(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := config.DefaultConfig
	hint := tview.NewTextView().SetDynamicColors(true)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(screenW, screenH)
	t.Cleanup(screen.Fini)

	return &testBoard{
		game:   game,
		board:  NewBoard(nil, game, &cfg, hint),
		hint:   hint,
		cfg:    &cfg,
		screen: screen,
	}
}

func (tb *testBoard) draw() {
	tb.board.Box.SetRect(0, 0, screenW, screenH)
	tb.board.Box.Draw(tb.screen)
}

// center returns the screen position where the mark of pos is drawn.
func (tb *testBoard) center(pos types.BoardPos) (int, int) {
	return tb.board.gridX + pos.X*(cellW+1) + cellW/2, tb.board.gridY + pos.Y*(cellH+1) + cellH/2
}

func (tb *testBoard) runeAt(pos types.BoardPos) rune {
	x, y := tb.center(pos)
	r, _, _, _ := tb.screen.GetContent(x, y)
	return r
}

func (tb *testBoard) backgroundAt(pos types.BoardPos) tcell.Color {
	x, y := tb.center(pos)
	_, _, style, _ := tb.screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func (tb *testBoard) click(x, y int) {
	event := tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone)
	tb.board.Box.MouseHandler()(tview.MouseLeftClick, event, func(tview.Primitive) {})
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBoardDrawsCurrentStep(t *testing.T) {
	tb := newTestBoard(t)
	tb.game.ApplyMove(types.BoardPos{X: 0, Y: 0})
	tb.game.ApplyMove(types.BoardPos{X: 1, Y: 1})
	tb.draw()

	assert.Equal(t, 'X', tb.runeAt(types.BoardPos{X: 0, Y: 0}))
	assert.Equal(t, 'O', tb.runeAt(types.BoardPos{X: 1, Y: 1}))
	assert.Equal(t, '·', tb.runeAt(types.BoardPos{X: 2, Y: 2}))

	// board is centered, grid lines cross between cells
	assert.Equal(t, (screenW-boardW)/2+labelW, tb.board.gridX)
	assert.Equal(t, (screenH-boardH)/2, tb.board.gridY)
	r, _, _, _ := tb.screen.GetContent(tb.board.gridX+cellW, tb.board.gridY+cellH)
	assert.Equal(t, '┼', r)
	r, _, _, _ = tb.screen.GetContent(tb.board.gridX+cellW/2, tb.board.gridY+gridH)
	assert.Equal(t, 'a', r)

	tb.game.Previous()
	tb.draw()
	assert.Equal(t, '·', tb.runeAt(types.BoardPos{X: 1, Y: 1}))
	assert.Equal(t, tcell.PaletteColor(tb.cfg.Theme.Colors.LastPlayedBG), tb.backgroundAt(types.BoardPos{X: 0, Y: 0}))
}

func TestBoardHighlightsWinningLine(t *testing.T) {
	tb := newTestBoard(t)
	for _, p := range []types.BoardPos{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}} {
		require.True(t, tb.game.ApplyMove(p))
	}
	tb.draw()

	win := tcell.PaletteColor(tb.cfg.Theme.Colors.WinColorBG)
	for x := 0; x < types.Size; x++ {
		assert.Equal(t, win, tb.backgroundAt(types.BoardPos{X: x, Y: 0}))
	}
	assert.Equal(t, tcell.PaletteColor(tb.cfg.Theme.Colors.BoardColor), tb.backgroundAt(types.BoardPos{X: 0, Y: 1}))
	assert.Contains(t, tb.hint.GetText(true), "Player X won")

	tb.cfg.Theme.HighlightWinningLine = false
	tb.draw()
	assert.Equal(t, tcell.PaletteColor(tb.cfg.Theme.Colors.BoardColor), tb.backgroundAt(types.BoardPos{X: 0, Y: 0}))
}

func TestCellAt(t *testing.T) {
	tb := newTestBoard(t)

	_, ok := tb.board.cellAt(0, 0)
	assert.False(t, ok, "nothing drawn yet")

	tb.draw()
	gx, gy := tb.board.gridX, tb.board.gridY

	tests := []struct {
		name   string
		x, y   int
		want   types.BoardPos
		wantOK bool
	}{
		{"top left corner", gx, gy, types.BoardPos{X: 0, Y: 0}, true},
		{"last column of first cell", gx + cellW - 1, gy + cellH - 1, types.BoardPos{X: 0, Y: 0}, true},
		{"centre cell", gx + cellW + 1 + 2, gy + cellH + 1 + 1, types.BoardPos{X: 1, Y: 1}, true},
		{"bottom right", gx + gridW - 1, gy + gridH - 1, types.BoardPos{X: 2, Y: 2}, true},
		{"vertical grid line", gx + cellW, gy, types.BoardPos{}, false},
		{"horizontal grid line", gx, gy + cellH, types.BoardPos{}, false},
		{"row labels", gx - 1, gy, types.BoardPos{}, false},
		{"above", gx, gy - 1, types.BoardPos{}, false},
		{"right of grid", gx + gridW, gy, types.BoardPos{}, false},
		{"column labels", gx, gy + gridH, types.BoardPos{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tb.board.cellAt(tt.x, tt.y)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClickPlaysAndRevealsControls(t *testing.T) {
	tb := newTestBoard(t)
	tb.draw()
	require.False(t, tb.board.Controls().Visible())

	pos := types.BoardPos{X: 2, Y: 1}
	tb.click(tb.center(pos))

	assert.True(t, tb.board.Controls().Visible())
	assert.Equal(t, types.PlayerX, tb.game.RenderCell(pos))
	assert.Equal(t, 1, tb.game.State().Step)

	// occupied cell: ignored, controls stay
	tb.click(tb.center(pos))
	assert.Equal(t, 1, tb.game.State().Step)
	assert.True(t, tb.board.Controls().Visible())

	// grid line: nothing happens
	tb.click(tb.board.gridX+cellW, tb.board.gridY)
	assert.Equal(t, 1, tb.game.State().Step)
}

func TestResetHidesControls(t *testing.T) {
	tb := newTestBoard(t)
	tb.board.CellClicked(types.BoardPos{X: 0, Y: 0})
	tb.board.MoveSelection(1, 0)
	require.True(t, tb.board.Controls().Visible())

	assert.Nil(t, tb.board.HandleKey(keyRune('r')))

	assert.False(t, tb.board.Controls().Visible())
	assert.Nil(t, tb.board.SelectedTile())
	assert.Equal(t, 1, tb.game.State().HistoryLen)
	assert.Contains(t, tb.hint.GetText(true), "Next player: X")
}

func TestHandleKey(t *testing.T) {
	tb := newTestBoard(t)
	b := tb.board

	// first movement selects the centre
	assert.Nil(t, b.HandleKey(key(tcell.KeyRight)))
	require.NotNil(t, b.SelectedTile())
	assert.Equal(t, types.BoardPos{X: 1, Y: 1}, *b.SelectedTile())

	assert.Nil(t, b.HandleKey(key(tcell.KeyEnter)))
	assert.Equal(t, types.PlayerX, tb.game.RenderCell(types.BoardPos{X: 1, Y: 1}))

	b.HandleKey(keyRune('l'))
	b.HandleKey(keyRune('l')) // edge, stays
	b.HandleKey(keyRune('k'))
	assert.Equal(t, types.BoardPos{X: 2, Y: 0}, *b.SelectedTile())
	b.HandleKey(keyRune(' '))
	assert.Equal(t, types.PlayerO, tb.game.RenderCell(types.BoardPos{X: 2, Y: 0}))
	assert.Equal(t, 2, tb.game.State().Step)

	b.HandleKey(keyRune('['))
	assert.Equal(t, 1, tb.game.State().Step)
	b.HandleKey(key(tcell.KeyHome))
	assert.Equal(t, 0, tb.game.State().Step)
	b.HandleKey(keyRune(']'))
	assert.Equal(t, 1, tb.game.State().Step)
	b.HandleKey(key(tcell.KeyEnd))
	assert.Equal(t, 2, tb.game.State().Step)

	unhandled := keyRune('z')
	assert.Same(t, unhandled, b.HandleKey(unhandled))
	tab := key(tcell.KeyTab)
	assert.Same(t, tab, b.HandleKey(tab))
}

func TestSelectionClearedWhenFinished(t *testing.T) {
	tb := newTestBoard(t)
	for _, p := range []types.BoardPos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}} {
		tb.board.CellClicked(p)
	}
	// cursor starts on the last move
	tb.board.MoveSelection(0, 0)
	require.Equal(t, types.BoardPos{X: 2, Y: 0}, *tb.board.SelectedTile())

	tb.board.HandleKey(key(tcell.KeyDown))
	tb.board.HandleKey(key(tcell.KeyDown))
	tb.board.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, engine.Won, tb.game.State().Outcome)
	assert.Nil(t, tb.board.SelectedTile())

	// no cursor on a finished board
	tb.board.MoveSelection(1, 0)
	assert.Nil(t, tb.board.SelectedTile())
}

func TestFocusModeHint(t *testing.T) {
	tb := newTestBoard(t)

	assert.True(t, tb.board.ToggleFocusMode())
	assert.Contains(t, tb.hint.GetText(true), "f to toggle")
	assert.NotContains(t, tb.hint.GetText(true), "Next player")

	tb.board.SetFocusMode(false)
	assert.False(t, tb.board.IsFocusMode())
	assert.Contains(t, tb.hint.GetText(true), "Next player: X")
	assert.Contains(t, tb.hint.GetText(true), "q quit")
}

func TestPosLabel(t *testing.T) {
	assert.Equal(t, "a1", posLabel(types.BoardPos{X: 0, Y: 0}))
	assert.Equal(t, "c2", posLabel(types.BoardPos{X: 2, Y: 1}))
}
