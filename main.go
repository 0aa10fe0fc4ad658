// tictactoe-local is a terminal tic-tac-toe for two players sharing one keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rivo/tview"

	"tictactoe-local/config"
	"tictactoe-local/engine"
	"tictactoe-local/spectate"
	"tictactoe-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagFocus        = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion      = flag.Bool("version", false, "Print version and exit")
	flagSpectate     = flag.Bool("spectate", false, "Serve the live game to read-only spectators over HTTP")
	flagSpectateAddr = flag.String("spectate-addr", "", "Spectator listen address (overrides config)")
	flagLogLevel     = flag.String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flagWriteConfig  = flag.Bool("write-config", false, "Write the effective config to the XDG config dir and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config

func main() {
	var envCfg config.Config
	envHeader := "\nEnvironment variables:"
	flag.Usage = cleanenv.FUsage(flag.CommandLine.Output(), &envCfg, &envHeader, flag.Usage)
	flag.Parse()

	if *flagVersion {
		fmt.Printf("tictactoe-local %s\n", Version)
		return
	}

	var err error
	cfg, err = loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagWriteConfig {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}

	session := uuid.NewString()
	logger, logFile, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger = logger.With("session", session)
	logger.Info("Starting tictactoe-local", "version", Version, "spectate", cfg.Spectate.Enabled)

	game := engine.NewController(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Spectate.Enabled {
		startSpectator(ctx, session, game, logger)
	}

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ✕ tic-tac-toe ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, game, cfg, gameHint)

	// Create game layout with centered board, controls and side panel
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyRune {
			return gameBoard.HandleKey(event)
		}
		switch event.Rune() {
		case 'q':
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				app.Stop()
			}
			return nil
		case 'f':
			if gameBoard.ToggleFocusMode() {
				ui.BuildFocusLayout(gameFrame, gameBoard, gameHint)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
			}
			return nil
		case 'c':
			rootPage.SwitchToPage("colors")
			return nil
		}
		return gameBoard.HandleKey(event)
	})

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func(err error) {
		if err != nil {
			logger.Error("failed to save config", "error", err)
		}
		// Refresh the game board with new colors
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("gameview")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("gameview")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("gameview", gameFrame, true, true)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if *flagFocus {
		gameBoard.SetFocusMode(true)
		ui.BuildFocusLayout(gameFrame, gameBoard, gameHint)
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		logger.Error("terminal UI failed", "error", err)
		cancel()
		os.Exit(1)
	}
	logger.Info("Stopped", "steps", game.State().HistoryLen-1)
}

// loadConfig reads the config and applies command-line overrides on top.
func loadConfig() (*config.Config, error) {
	c, err := config.InitConfig()
	if err != nil {
		return nil, err
	}
	if *flagLogLevel != "" {
		c.LogLevel = *flagLogLevel
	}
	if *flagSpectate {
		c.Spectate.Enabled = true
	}
	if *flagSpectateAddr != "" {
		c.Spectate.Addr = *flagSpectateAddr
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newLogger opens the log file and returns a JSON logger writing to it. The
// terminal belongs to the UI, so nothing is logged to stderr.
func newLogger(c *config.Config) (*slog.Logger, io.Closer, error) {
	path, err := c.LogPath()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	var level slog.Level
	if err = level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), f, nil
}

// startSpectator publishes every transition to the spectator hub and serves
// it until ctx is cancelled.
func startSpectator(ctx context.Context, session string, game *engine.Controller, logger *slog.Logger) {
	hub := spectate.NewHub(session, game.State())
	game.OnStateChanged(hub.Listener())
	go func() {
		if err := spectate.Run(ctx, cfg.Spectate.Addr, hub, logger); err != nil {
			logger.Error("spectator server failed", "error", err)
		}
	}()
}
