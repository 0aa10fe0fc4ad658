package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// navigator is the part of the game the history buttons drive.
type navigator interface {
	Previous() bool
	Next() bool
	Reset()
	CanPrevious() bool
	CanNext() bool
}

// NavControls is the Prev / Next / Reset button row. It stays hidden until
// the first cell click and hides again when the game is reset. Visibility is
// purely a view concern; the game never sees it.
type NavControls struct {
	Box     *tview.Box
	game    navigator
	buttons []*MenuButton
	prev    *MenuButton
	next    *MenuButton
	visible bool
	redraw  func()

	row int // screen row of the buttons at the last draw
}

// NewNavControls creates hidden controls bound to game. redraw is called
// after a visibility change.
func NewNavControls(game navigator, redraw func()) *NavControls {
	c := &NavControls{
		Box:    tview.NewBox(),
		game:   game,
		redraw: redraw,
		row:    noCoord,
	}
	c.prev = NewMenuButton("◀ Prev", func() { game.Previous() })
	c.next = NewMenuButton("Next ▶", func() { game.Next() })
	reset := NewMenuButton("↺ Reset", game.Reset)
	c.buttons = []*MenuButton{c.prev, c.next, reset}

	c.Box.SetDrawFunc(c.draw)
	c.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		switch action {
		case tview.MouseMove:
			c.hover(event.Position())
			return action, event
		case tview.MouseLeftClick:
			if c.Click(event.Position()) {
				return action, nil
			}
		}
		return action, event
	})
	c.Refresh()
	return c
}

// Visible reports whether the buttons are drawn.
func (c *NavControls) Visible() bool {
	return c.visible
}

func (c *NavControls) Show() {
	c.visible = true
	c.Refresh()
}

func (c *NavControls) Hide() {
	c.visible = false
	c.row = noCoord
	if c.redraw != nil {
		c.redraw()
	}
}

// Refresh greys out Prev and Next when there is nowhere to go.
func (c *NavControls) Refresh() {
	c.prev.SetDisabled(!c.game.CanPrevious())
	c.next.SetDisabled(!c.game.CanNext())
}

// Click presses the button under the given screen position. Returns true if
// a button was hit, disabled or not.
func (c *NavControls) Click(x, y int) bool {
	if !c.visible || y != c.row {
		return false
	}
	for _, b := range c.buttons {
		if b.Contains(x) {
			b.Press()
			return true
		}
	}
	return false
}

func (c *NavControls) hover(x, y int) {
	changed := false
	for _, b := range c.buttons {
		over := c.visible && y == c.row && b.Contains(x)
		if over != b.focused {
			b.SetFocused(over)
			changed = true
		}
	}
	if changed && c.redraw != nil {
		c.redraw()
	}
}

func (c *NavControls) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if !c.visible {
		return x, y, width, height
	}
	total := 0
	for _, b := range c.buttons {
		total += b.Width()
	}
	total += len(c.buttons) - 1

	col := x + max(0, (width-total)/2)
	c.row = y + height/2
	for _, b := range c.buttons {
		col += b.Draw(screen, col, c.row) + 1
	}
	return x, y, width, height
}
