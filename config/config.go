package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

var (
	cfgFile = "tictactoe-local/config.json"
	logFile = "tictactoe-local/tictactoe.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	LineColor     int `json:"line"`
	XColor        int `json:"x"`
	OColor        int `json:"o"`
	CursorColorBG int `json:"cursor_bg"`
	WinColorBG    int `json:"win_bg"`
	LastPlayedBG  int `json:"last_played_bg"`
}

type ConfigSymbols struct {
	X     string `json:"x"`
	O     string `json:"o"`
	Empty string `json:"empty"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	HighlightWinningLine     bool          `json:"highlight_winning_line"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// SpectateConfig controls the read-only HTTP observer.
type SpectateConfig struct {
	Enabled bool   `json:"enabled" env:"TTT_SPECTATE" env-description:"serve the live game state over HTTP"`
	Addr    string `json:"addr" env:"TTT_SPECTATE_ADDR" env-description:"listen address of the spectator server"`
}

type Config struct {
	LogLevel string         `json:"log_level" env:"TTT_LOG_LEVEL" env-description:"debug, info, warn or error"`
	LogFile  string         `json:"log_file" env:"TTT_LOG_FILE" env-description:"log file path, defaults to the XDG state dir"`
	Theme    Theme          `json:"theme"`
	Spectate SpectateConfig `json:"spectate"`
}

// InitConfig starts from DefaultConfig, overlays the XDG config file if one
// exists, then TTT_* environment variables, and validates the result.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		err = cleanenv.ReadConfig(absPath, &config)
	} else {
		err = cleanenv.ReadEnv(&config)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads a config from an explicit path instead of the XDG search path.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, s := range []string{c.Theme.Symbols.X, c.Theme.Symbols.O, c.Theme.Symbols.Empty} {
		if utf8.RuneCountInString(s) != 1 {
			return &InvalidConfig{fmt.Sprintf("symbol %q must be a single character", s)}
		}
		r, _ := utf8.DecodeRuneInString(s)
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Theme.Symbols.X == c.Theme.Symbols.O {
		return &InvalidConfig{"X and O symbols must differ"}
	}
	colors := c.Theme.Colors
	for _, n := range []int{colors.BoardColor, colors.LineColor, colors.XColor, colors.OColor, colors.CursorColorBG, colors.WinColorBG, colors.LastPlayedBG} {
		if n < 0 || n > 255 {
			return &InvalidConfig{fmt.Sprintf("palette color %d out of range 0-255", n)}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}
	if c.Spectate.Enabled && c.Spectate.Addr == "" {
		return &InvalidConfig{"spectate is enabled without an address"}
	}
	return nil
}

// Save writes the config to the XDG config path and returns that path.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if err = saveCfgFile(absPath, c, 0664); err != nil {
		return "", err
	}
	return absPath, nil
}

// LogPath returns the configured log file, or one under the XDG state dir.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
			return "", fmt.Errorf("create log dir: %w", err)
		}
		return c.LogFile, nil
	}
	path, err := xdg.StateFile(logFile)
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err = os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool {
	var invalid *InvalidConfig
	return errors.As(err, &invalid)
}
