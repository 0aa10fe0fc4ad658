package engine

import (
	"fmt"

	"tictactoe-local/types"
)

// Outcome classifies a board position.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Drawn
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	default:
		return "in_progress"
	}
}

// MarshalText encodes the outcome with its String form.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*o = InProgress
	case "won":
		*o = Won
	case "drawn":
		*o = Drawn
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Status is everything that can be derived from a single board.
type Status struct {
	Winner   types.Cell
	Finished bool
	Outcome  Outcome
}

// DeriveStatus evaluates a board. A win takes precedence over a full board.
func DeriveStatus(b types.Board) Status {
	if winner := b.FindWinner(); winner != types.Empty {
		return Status{Winner: winner, Finished: true, Outcome: Won}
	}
	if b.IsFull() {
		return Status{Finished: true, Outcome: Drawn}
	}
	return Status{Outcome: InProgress}
}

// PlayerForStep returns whose turn it is at a history index: X on even steps.
func PlayerForStep(step int) types.Cell {
	if step%2 == 0 {
		return types.PlayerX
	}
	return types.PlayerO
}

// StatusText is the one-line summary shown to the players.
func StatusText(s State) string {
	switch {
	case s.Winner != types.Empty:
		return fmt.Sprintf("Player %s won", s.Winner)
	case s.Finished:
		return "Draw"
	default:
		return fmt.Sprintf("Next player: %s", s.CurrentPlayer)
	}
}
