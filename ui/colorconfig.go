package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tictactoe-local/config"
	"tictactoe-local/types"
)

// ColorConfigUI provides a mark colour screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func(error)
	save      func(*config.Config) error

	// Current selection
	selectedX int
	selectedO int
	editingO  bool // true = editing O colour, false = editing X colour

	populating bool
}

type paletteEntry struct {
	code int
	name string
}

// Mark colours to choose from. Both marks share the list.
var markColors = []paletteEntry{
	{203, "Coral"},
	{196, "Red"},
	{160, "Crimson"},
	{209, "Salmon"},
	{214, "Orange Gold"},
	{220, "Bright Yellow"},
	{228, "Light Gold"},
	{120, "Light Green"},
	{34, "Green"},
	{43, "Teal"},
	{51, "Cyan"},
	{75, "Sky Blue"},
	{33, "Blue"},
	{63, "Slate Blue"},
	{135, "Purple"},
	{171, "Orchid"},
	{213, "Pink"},
	{255, "White"},
	{250, "Gray"},
}

// sample position drawn in the preview
var previewBoard = types.Board{
	types.PlayerX, types.PlayerO, types.Empty,
	types.Empty, types.PlayerX, types.Empty,
	types.PlayerO, types.Empty, types.PlayerX,
}

// NewColorConfig creates a new colour configuration screen. onDone is called
// with the save result once both colours are picked.
func NewColorConfig(cfg *config.Config, onDone func(error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:       cfg,
		onDone:    onDone,
		save:      func(c *config.Config) error { _, err := c.Save(); return err },
		selectedX: cfg.Theme.Colors.XColor,
		selectedO: cfg.Theme.Colors.OColor,
	}

	// Create the color list
	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)

	cc.populateColorList()

	// Handle selection change (preview)
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.preselect(index)
	})

	// Handle selection confirm (apply)
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.Confirm(index)
	})

	// Create preview box
	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) preselect(index int) {
	if cc.populating || index < 0 || index >= len(markColors) {
		return
	}
	if cc.editingO {
		cc.selectedO = markColors[index].code
	} else {
		cc.selectedX = markColors[index].code
	}
}

// Confirm applies the colour at index to the mark being edited. Picking X
// moves on to O; picking O saves both and calls onDone.
func (cc *ColorConfigUI) Confirm(index int) error {
	if index < 0 || index >= len(markColors) {
		return nil
	}
	cc.preselect(index)
	if !cc.editingO {
		cc.cfg.Theme.Colors.XColor = cc.selectedX
		cc.editingO = true
		cc.populateColorList()
		return nil
	}

	cc.cfg.Theme.Colors.OColor = cc.selectedO
	cc.editingO = false
	cc.populateColorList()
	err := cc.save(cc.cfg)
	if cc.onDone != nil {
		cc.onDone(err)
	}
	return err
}

// populateColorList fills the list and selects the colour of the mark being edited.
func (cc *ColorConfigUI) populateColorList() {
	// List fires its changed func while being refilled
	cc.populating = true
	defer func() { cc.populating = false }()
	cc.colorList.Clear()

	mark, other, current := "X", "O", cc.selectedX
	if cc.editingO {
		mark, other, current = "O", "X", cc.selectedO
	}
	cc.colorList.SetTitle(fmt.Sprintf(" %s Color (Tab: switch to %s) ", mark, other))
	for i, c := range markColors {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range markColors {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	boardColor := tcell.PaletteColor(cc.cfg.Theme.Colors.BoardColor)
	lineColor := tcell.PaletteColor(cc.cfg.Theme.Colors.LineColor)

	lineStyle := tcell.StyleDefault.Background(boardColor).Foreground(lineColor)
	xStyle := tcell.StyleDefault.Background(boardColor).Foreground(tcell.PaletteColor(cc.selectedX)).Bold(true)
	oStyle := tcell.StyleDefault.Background(boardColor).Foreground(tcell.PaletteColor(cc.selectedO)).Bold(true)

	if width < gridW+4 || height < gridH+4 {
		return x, y, width, height
	}

	startX := x + 2
	startY := y + 1

	drawGridLines(screen, lineStyle, startX, startY)
	for i, cell := range previewBoard {
		pos := types.PosFromIndex(i)
		style, r := lineStyle, []rune(cc.cfg.Theme.Symbols.Empty)[0]
		switch cell {
		case types.PlayerX:
			style, r = xStyle, []rune(cc.cfg.Theme.Symbols.X)[0]
		case types.PlayerO:
			style, r = oStyle, []rune(cc.cfg.Theme.Symbols.O)[0]
		}
		drawMarkCell(screen, style, r, startX+pos.X*(cellW+1), startY+pos.Y*(cellH+1))
	}

	// Draw color info
	info := fmt.Sprintf("X: %d  O: %d", cc.selectedX, cc.selectedO)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+gridH+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between X and O colour editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingO = !cc.editingO
	cc.populateColorList()
}

// Selected returns the colours currently previewed for X and O.
func (cc *ColorConfigUI) Selected() (x, o int) {
	return cc.selectedX, cc.selectedO
}
