package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired color palette for the controls and panels.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	CardBG      tcell.Color // Dark gray background
	Label       tcell.Color // Light gray for labels
	Disabled    tcell.Color // Darker gray for unavailable buttons
	ButtonFocus tcell.Color // Hovered or pressed button
	ButtonText  tcell.Color // Button text
}{
	Border:      tcell.PaletteColor(60),  // Muted blue-gray
	CardBG:      tcell.PaletteColor(236), // Dark gray
	Label:       tcell.PaletteColor(250), // Light gray
	Disabled:    tcell.PaletteColor(239), // Darker gray
	ButtonFocus: tcell.PaletteColor(109), // Brighter blue
	ButtonText:  tcell.PaletteColor(255), // White
}
