package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 3 * time.Second
)

type handlers struct {
	hub    *Hub
	logger *slog.Logger
}

// NewServer wires routes and returns an http.Handler. Every route is read-only.
func NewServer(hub *Hub, logger *slog.Logger) http.Handler {
	h := &handlers{hub: hub, logger: logger.With("component", "spectate")}
	r := chi.NewRouter()
	r.Get("/", h.index)
	r.Get("/state", h.state)
	r.Get("/ws", h.stream)
	return r
}

// Run serves the spectator routes on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, hub *Hub, logger *slog.Logger) error {
	log := logger.With("component", "spectate", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(hub, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting spectator server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("spectator server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown spectator server: %w", err)
		}
		log.Info("Spectator server stopped")
		return nil
	}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "tic-tac-toe session %s\nGET /state  latest state as JSON\nGET /ws     state stream (WebSocket)\n", h.hub.Session())
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(h.hub.Latest()); err != nil {
		h.logger.Error("failed to encode state", "error", err)
	}
}

// stream sends the latest snapshot on connect and one message per transition.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("method", "stream", "remote", r.RemoteAddr)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	// Observers never send; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	ch, unsub := h.hub.Subscribe(ctx)
	defer unsub()

	log.Info("spectator connected", "subscribers", h.hub.Subscribers())

	if err = h.write(ctx, conn, h.hub.Latest()); err != nil {
		log.Debug("initial write failed", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("spectator disconnected")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case snap, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err = h.write(ctx, conn, snap); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
		}
	}
}

func (h *handlers) write(ctx context.Context, conn *websocket.Conn, snap Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, snap)
}
