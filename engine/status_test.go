package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tictactoe-local/types"
)

func TestDeriveStatus(t *testing.T) {
	X, O, E := types.PlayerX, types.PlayerO, types.Empty

	tests := []struct {
		name  string
		board types.Board
		want  Status
	}{
		{"empty", types.Board{}, Status{Outcome: InProgress}},
		{"in progress", types.Board{X, O, E, E, X, E, E, E, O}, Status{Outcome: InProgress}},
		{"o wins column", types.Board{X, O, X, E, O, X, E, O, E}, Status{Winner: O, Finished: true, Outcome: Won}},
		{"draw", types.Board{X, O, X, X, O, O, O, X, X}, Status{Finished: true, Outcome: Drawn}},
		{"win beats full board", types.Board{X, X, X, O, O, X, X, O, O}, Status{Winner: X, Finished: true, Outcome: Won}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.board))
		})
	}
}

func TestPlayerForStep(t *testing.T) {
	for step := 0; step < 10; step++ {
		want := types.PlayerX
		if step%2 == 1 {
			want = types.PlayerO
		}
		assert.Equal(t, want, PlayerForStep(step), "step %d", step)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{CurrentPlayer: types.PlayerX}, "Next player: X"},
		{State{CurrentPlayer: types.PlayerO}, "Next player: O"},
		{State{Finished: true}, "Draw"},
		{State{Winner: types.PlayerO, Finished: true}, "Player O won"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusText(tt.state))
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "in_progress", InProgress.String())
	assert.Equal(t, "won", Won.String())
	assert.Equal(t, "drawn", Drawn.String())
	assert.Equal(t, "move", Moved.String())
	assert.Equal(t, "reset", Restarted.String())

	text, err := SteppedBack.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "previous", string(text))
}
