// Package engine holds the tic-tac-toe rules engine: an undoable history of
// board snapshots and the status derived from the active one.
package engine

import (
	"log/slog"

	"tictactoe-local/types"
)

// Transition names the operation that produced a state change.
type Transition int

const (
	Moved Transition = iota
	SteppedBack
	SteppedForward
	Jumped
	Restarted
)

func (t Transition) String() string {
	switch t {
	case Moved:
		return "move"
	case SteppedBack:
		return "previous"
	case SteppedForward:
		return "next"
	case Jumped:
		return "jump"
	case Restarted:
		return "reset"
	default:
		return "unknown"
	}
}

// MarshalText encodes the transition with its String form.
func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Move is the placement that produced a history entry.
type Move struct {
	Player types.Cell
	Pos    types.BoardPos
}

// State is a copy of the derived game state at the current step.
type State struct {
	Board         types.Board
	Step          int
	HistoryLen    int
	CurrentPlayer types.Cell
	Winner        types.Cell
	Finished      bool
	Outcome       Outcome
	// LastMove is the move that produced Board, nil at step 0.
	LastMove *types.BoardPos
}

// Listener is notified after every committed transition.
type Listener func(t Transition, s State)

// Controller owns the game history and the cursor into it. It is not safe for
// concurrent use; the host event loop calls it serially.
type Controller struct {
	logger    *slog.Logger
	history   []types.Board
	moves     []Move // moves[i] produced history[i+1]
	step      int
	status    Status
	current   types.Cell
	listeners []Listener
}

// NewController returns a controller holding a single empty board.
func NewController(logger *slog.Logger) *Controller {
	c := &Controller{
		logger: logger.With("component", "engine"),
	}
	c.restart()
	return c
}

// OnStateChanged registers fn to be called after each transition.
func (c *Controller) OnStateChanged(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// ApplyMove places the current player's mark at pos. It does nothing and
// returns false if the game at the current step is finished or pos is
// occupied. Any history after the current step is discarded.
func (c *Controller) ApplyMove(pos types.BoardPos) bool {
	current := c.history[c.step]
	if c.status.Finished || current.Get(pos) != types.Empty {
		c.logger.Debug("move ignored", "pos", pos, "step", c.step, "finished", c.status.Finished)
		return false
	}

	player := c.current
	next := current.WithMove(pos, player)

	c.history = append(c.history[:c.step+1:c.step+1], next)
	c.moves = append(c.moves[:c.step:c.step], Move{Player: player, Pos: pos})
	c.sync(c.step + 1)

	c.logger.Debug("move applied",
		"player", player.String(),
		"pos", pos,
		"step", c.step,
		"board", next.String(),
		"outcome", c.status.Outcome.String(),
	)
	c.notify(Moved)
	return true
}

// Previous moves the cursor one step back.
func (c *Controller) Previous() bool {
	if !c.CanPrevious() {
		return false
	}
	c.sync(c.step - 1)
	c.notify(SteppedBack)
	return true
}

// Next moves the cursor one step forward.
func (c *Controller) Next() bool {
	if !c.CanNext() {
		return false
	}
	c.sync(c.step + 1)
	c.notify(SteppedForward)
	return true
}

// JumpTo moves the cursor to any recorded step.
func (c *Controller) JumpTo(step int) bool {
	if step < 0 || step >= len(c.history) || step == c.step {
		return false
	}
	c.sync(step)
	c.notify(Jumped)
	return true
}

// Reset discards the whole history and starts from an empty board.
func (c *Controller) Reset() {
	c.restart()
	c.logger.Debug("game reset")
	c.notify(Restarted)
}

// CanPrevious reports whether Previous would move the cursor.
func (c *Controller) CanPrevious() bool {
	return c.step > 0
}

// CanNext reports whether Next would move the cursor.
func (c *Controller) CanNext() bool {
	return c.step < len(c.history)-1
}

// RenderCell returns the cell at pos on the current board.
func (c *Controller) RenderCell(pos types.BoardPos) types.Cell {
	return c.history[c.step].Get(pos)
}

// State returns a copy of the current derived state.
func (c *Controller) State() State {
	s := State{
		Board:         c.history[c.step],
		Step:          c.step,
		HistoryLen:    len(c.history),
		CurrentPlayer: c.current,
		Winner:        c.status.Winner,
		Finished:      c.status.Finished,
		Outcome:       c.status.Outcome,
	}
	if c.step > 0 {
		pos := c.moves[c.step-1].Pos
		s.LastMove = &pos
	}
	return s
}

// History returns a copy of every recorded board.
func (c *Controller) History() []types.Board {
	out := make([]types.Board, len(c.history))
	copy(out, c.history)
	return out
}

// Moves returns a copy of the moves that produced history[1:].
func (c *Controller) Moves() []Move {
	out := make([]Move, len(c.moves))
	copy(out, c.moves)
	return out
}

func (c *Controller) restart() {
	c.history = []types.Board{types.NewBoard()}
	c.moves = nil
	c.sync(0)
}

// sync points the cursor at step and re-derives everything from that board.
func (c *Controller) sync(step int) {
	c.step = step
	c.current = PlayerForStep(step)
	c.status = DeriveStatus(c.history[step])
}

func (c *Controller) notify(t Transition) {
	if len(c.listeners) == 0 {
		return
	}
	s := c.State()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	for _, fn := range listeners {
		fn(t, s)
	}
}
