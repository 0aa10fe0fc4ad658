package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// board builds a Board from a row-major picture such as "XO./.X./..X".
func board(t *testing.T, picture string) Board {
	t.Helper()
	var cells []Cell
	for _, r := range picture {
		switch r {
		case 'X':
			cells = append(cells, PlayerX)
		case 'O':
			cells = append(cells, PlayerO)
		case '.':
			cells = append(cells, Empty)
		}
	}
	b, err := BoardFromCells(cells)
	require.NoError(t, err)
	return b
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard()
	for i, c := range b {
		assert.Equal(t, Empty, c, "cell %d", i)
	}
	assert.False(t, b.IsFull())
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, Empty, b.FindWinner())
}

func TestBoardFromCells(t *testing.T) {
	t.Run("copies without aliasing", func(t *testing.T) {
		cells := []Cell{PlayerX, Empty, Empty, Empty, PlayerO, Empty, Empty, Empty, Empty}
		b, err := BoardFromCells(cells)
		require.NoError(t, err)

		cells[0] = PlayerO
		assert.Equal(t, PlayerX, b.Get(BoardPos{0, 0}))
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := BoardFromCells(make([]Cell, 8))
		require.ErrorIs(t, err, ErrBoardShape)

		_, err = BoardFromCells(make([]Cell, 10))
		require.ErrorIs(t, err, ErrBoardShape)
	})

	t.Run("unknown cell value", func(t *testing.T) {
		cells := make([]Cell, 9)
		cells[4] = Cell(7)
		_, err := BoardFromCells(cells)
		require.ErrorIs(t, err, ErrInvalidCell)
	})
}

func TestGetUsesLinearIndex(t *testing.T) {
	b := board(t, "..X/O../...")
	assert.Equal(t, PlayerX, b.Get(BoardPos{X: 2, Y: 0}))
	assert.Equal(t, PlayerO, b.Get(BoardPos{X: 0, Y: 1}))
	assert.Equal(t, Empty, b.Get(BoardPos{X: 1, Y: 1}))
}

func TestWithMoveDoesNotMutateReceiver(t *testing.T) {
	before := NewBoard()
	after := before.WithMove(BoardPos{1, 1}, PlayerX)

	assert.Equal(t, Empty, before.Get(BoardPos{1, 1}))
	assert.Equal(t, PlayerX, after.Get(BoardPos{1, 1}))
	assert.Equal(t, 1, after.Count())
}

func TestOutOfRangePanics(t *testing.T) {
	b := NewBoard()
	for _, pos := range []BoardPos{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
		assert.Panics(t, func() { b.Get(pos) }, "Get %v", pos)
		assert.Panics(t, func() { b.WithMove(pos, PlayerX) }, "WithMove %v", pos)
	}
}

func TestIsFull(t *testing.T) {
	assert.False(t, board(t, "XOX/OXO/OX.").IsFull())
	assert.True(t, board(t, "XOX/XOO/OXX").IsFull())
}

func TestFindWinnerEveryLine(t *testing.T) {
	for _, line := range WinLines {
		for _, player := range []Cell{PlayerX, PlayerO} {
			var b Board
			for _, idx := range line {
				b[idx] = player
			}
			assert.Equal(t, player, b.FindWinner(), "line %v", line)

			got, ok := b.WinningLine()
			require.True(t, ok)
			for i, idx := range line {
				assert.Equal(t, PosFromIndex(idx), got[i])
			}
		}
	}
}

func TestFindWinnerNone(t *testing.T) {
	tests := []struct {
		name    string
		picture string
	}{
		{"empty", ".../.../..."},
		{"two in a row", "XX./OO./..."},
		{"mixed line", "XOX/.../..."},
		{"draw", "XOX/XOO/OXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board(t, tt.picture)
			assert.Equal(t, Empty, b.FindWinner())
			_, ok := b.WinningLine()
			assert.False(t, ok)
		})
	}
}

func TestFindWinnerOnFullBoard(t *testing.T) {
	b := board(t, "XXX/OOX/XOO")
	assert.True(t, b.IsFull())
	assert.Equal(t, PlayerX, b.FindWinner())
}

func TestBoardString(t *testing.T) {
	assert.Equal(t, "X.O/.X./..O", board(t, "X.O/.X./..O").String())
}

func TestCell(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())

	var c Cell
	require.NoError(t, c.UnmarshalText([]byte("o")))
	assert.Equal(t, PlayerO, c)
	require.ErrorIs(t, c.UnmarshalText([]byte("Z")), ErrInvalidCell)

	_, err := Cell(9).MarshalText()
	require.ErrorIs(t, err, ErrInvalidCell)
}

func TestBoardJSON(t *testing.T) {
	b := board(t, "X../.O./...")
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `["X","","","","O","","","",""]`, string(data))

	var back Board
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}

func TestBoardPosJSON(t *testing.T) {
	data, err := json.Marshal(BoardPos{X: 2, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, `[2,1]`, string(data))

	var p BoardPos
	require.NoError(t, json.Unmarshal([]byte(`[0, 2]`), &p))
	assert.Equal(t, BoardPos{X: 0, Y: 2}, p)
	assert.Equal(t, 6, p.Index())

	require.ErrorIs(t, json.Unmarshal([]byte(`[1]`), &p), ErrInvalidPos)
}
