package ui

import (
	"github.com/gdamore/tcell/v2"
)

// MenuButton is a styled button component.
type MenuButton struct {
	label    string
	disabled bool
	focused  bool
	onSelect func()

	// column span of the last Draw, used for mouse hit tests
	left, right int
}

// NewMenuButton creates a new menu button.
func NewMenuButton(label string, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		onSelect: onSelect,
		left:     -1,
		right:    -1,
	}
}

// SetFocused sets the focus state.
func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// SetDisabled greys the button out and makes Press a no-op.
func (b *MenuButton) SetDisabled(disabled bool) {
	b.disabled = disabled
}

// Disabled reports whether the button is greyed out.
func (b *MenuButton) Disabled() bool {
	return b.disabled
}

// Press runs the button action unless it is disabled. Returns true if it ran.
func (b *MenuButton) Press() bool {
	if b.disabled || b.onSelect == nil {
		return false
	}
	b.onSelect()
	return true
}

// Contains reports whether screen column x falls on the button as last drawn.
func (b *MenuButton) Contains(x int) bool {
	return b.left >= 0 && x >= b.left && x < b.right
}

// Draw renders the button component at the given position.
// Returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	width := b.Width()
	b.left, b.right = x, x+width

	if b.focused && !b.disabled {
		// Filled background, bright text
		style := tcell.StyleDefault.
			Foreground(MenuColors.ButtonText).
			Background(MenuColors.ButtonFocus)
		for i := 0; i < width; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		col := x + 1
		for _, ch := range b.label {
			screen.SetContent(col, y, ch, nil, style)
			col++
		}
		return width
	}

	// Dim text with brackets, no fill
	textColor := MenuColors.Label
	if b.disabled {
		textColor = MenuColors.Disabled
	}
	textStyle := tcell.StyleDefault.Foreground(textColor).Background(MenuColors.CardBG)
	bracketStyle := tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)

	screen.SetContent(x, y, '[', nil, bracketStyle)
	col := x + 1
	for _, ch := range b.label {
		screen.SetContent(col, y, ch, nil, textStyle)
		col++
	}
	screen.SetContent(col, y, ']', nil, bracketStyle)

	return width
}

// Width returns the button width.
func (b *MenuButton) Width() int {
	return len([]rune(b.label)) + 2 // brackets or padding
}
