// Package spectate publishes the live game state to read-only observers.
package spectate

import (
	"context"
	"sync"
	"time"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

// Snapshot is the wire form of an engine.State.
type Snapshot struct {
	Session       string          `json:"session"`
	Seq           uint64          `json:"seq"`
	Transition    string          `json:"transition,omitempty"`
	Step          int             `json:"step"`
	HistoryLen    int             `json:"history_len"`
	Board         types.Board     `json:"board"`
	CurrentPlayer types.Cell      `json:"current_player"`
	Winner        types.Cell      `json:"winner"`
	Finished      bool            `json:"finished"`
	Outcome       engine.Outcome  `json:"outcome"`
	Status        string          `json:"status"`
	LastMove      *types.BoardPos `json:"last_move,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newSnapshot(session string, seq uint64, transition string, s engine.State) Snapshot {
	return Snapshot{
		Session:       session,
		Seq:           seq,
		Transition:    transition,
		Step:          s.Step,
		HistoryLen:    s.HistoryLen,
		Board:         s.Board,
		CurrentPlayer: s.CurrentPlayer,
		Winner:        s.Winner,
		Finished:      s.Finished,
		Outcome:       s.Outcome,
		Status:        engine.StatusText(s),
		LastMove:      s.LastMove,
		UpdatedAt:     time.Now().UTC(),
	}
}

type subscriber struct {
	ch        chan Snapshot
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Hub keeps the latest snapshot and fans every new one out to subscribers.
// Publish is called from the UI goroutine, readers come from HTTP handlers.
type Hub struct {
	session string

	mu     sync.Mutex
	seq    uint64
	latest Snapshot
	subs   map[*subscriber]struct{}
}

// NewHub returns a hub seeded with the initial state.
func NewHub(session string, initial engine.State) *Hub {
	return &Hub{
		session: session,
		latest:  newSnapshot(session, 0, "", initial),
		subs:    make(map[*subscriber]struct{}),
	}
}

// Session returns the identifier stamped on every snapshot.
func (h *Hub) Session() string {
	return h.session
}

// Listener adapts the hub to engine.Controller.OnStateChanged.
func (h *Hub) Listener() engine.Listener {
	return func(t engine.Transition, s engine.State) {
		h.Publish(t, s)
	}
}

// Publish records s as the latest state and never blocks. A subscriber that
// has not read the previous snapshot gets it replaced by the new one.
func (h *Hub) Publish(t engine.Transition, s engine.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.latest = newSnapshot(h.session, h.seq, t.String(), s)
	for sub := range h.subs {
		select {
		case sub.ch <- h.latest:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- h.latest
		}
	}
}

// Latest returns the most recent snapshot.
func (h *Hub) Latest() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Subscribe registers a subscriber until ctx is done or unsubscribe is called.
func (h *Hub) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 1)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			sub.close()
			h.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
