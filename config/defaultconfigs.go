package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		HighlightWinningLine:     true,
		Colors: ConfigColors{
			BoardColor:    236,
			LineColor:     60,
			XColor:        203,
			OColor:        75,
			CursorColorBG: 24,
			WinColorBG:    28,
			LastPlayedBG:  238,
		},
		Symbols: ConfigSymbols{
			X:     "X",
			O:     "O",
			Empty: "·",
		},
	}

	DefaultConfig = Config{
		LogLevel: "info",
		Theme:    DefaultTheme,
		Spectate: SpectateConfig{
			Addr: "127.0.0.1:7777",
		},
	}
}
