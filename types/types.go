// Package types contains shared data structures for tictactoe-local.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Size is the width and height of the board.
const Size = 3

var (
	ErrBoardShape  = errors.New("board must have exactly 9 cells")
	ErrInvalidCell = errors.New("invalid cell value")
	ErrInvalidPos  = errors.New("position out of range")
)

// Cell is the content of one grid position.
type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

func (c Cell) String() string {
	switch c {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Valid reports whether c is one of Empty, PlayerX or PlayerO.
func (c Cell) Valid() bool {
	return c <= PlayerO
}

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCell, c)
	}
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X", "x":
		*c = PlayerX
	case "O", "o":
		*c = PlayerO
	case "":
		*c = Empty
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCell, text)
	}
	return nil
}

// BoardPos represents a position on the board.
type BoardPos struct {
	X int
	Y int
}

// Valid reports whether both coordinates are in 0..2.
func (p BoardPos) Valid() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

// Index linearizes the position as x + y*3.
func (p BoardPos) Index() int {
	return p.X + p.Y*Size
}

func (p BoardPos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// PosFromIndex is the inverse of BoardPos.Index.
func PosFromIndex(i int) BoardPos {
	return BoardPos{X: i % Size, Y: i / Size}
}

// MarshalJSON encodes the position as [x, y].
func (p BoardPos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON allows BoardPos to be unmarshaled from a JSON array [x, y].
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("%w: want [x, y], got %d values", ErrInvalidPos, len(v))
	}
	p.X = v[0]
	p.Y = v[1]
	return nil
}

// WinLines are the rows, columns and diagonals, in evaluation order.
var WinLines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Board is a 3x3 snapshot stored row-major. It is a value: assigning or
// passing a Board copies its cells.
type Board [Size * Size]Cell

// NewBoard returns an all-empty board.
func NewBoard() Board {
	return Board{}
}

// BoardFromCells copies cells into a new Board.
func BoardFromCells(cells []Cell) (Board, error) {
	var b Board
	if len(cells) != len(b) {
		return b, fmt.Errorf("%w: got %d", ErrBoardShape, len(cells))
	}
	for i, c := range cells {
		if !c.Valid() {
			return Board{}, fmt.Errorf("%w at index %d: %d", ErrInvalidCell, i, c)
		}
		b[i] = c
	}
	return b, nil
}

// Get returns the cell at pos. It panics if pos is off the board.
func (b Board) Get(pos BoardPos) Cell {
	mustBeValid(pos)
	return b[pos.Index()]
}

// WithMove returns a copy of b with pos set to player. The receiver is not
// modified and the target cell is not checked for occupancy.
func (b Board) WithMove(pos BoardPos, player Cell) Board {
	mustBeValid(pos)
	b[pos.Index()] = player
	return b
}

// IsFull reports whether no cell is Empty.
func (b Board) IsFull() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Count returns the number of occupied cells.
func (b Board) Count() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// FindWinner returns the mark on the first complete line, or Empty.
func (b Board) FindWinner() Cell {
	if line, ok := b.winLine(); ok {
		return b[WinLines[line][0]]
	}
	return Empty
}

// WinningLine returns the positions of the first complete line, if any.
func (b Board) WinningLine() ([3]BoardPos, bool) {
	var out [3]BoardPos
	line, ok := b.winLine()
	if !ok {
		return out, false
	}
	for i, idx := range WinLines[line] {
		out[i] = PosFromIndex(idx)
	}
	return out, true
}

func (b Board) winLine() (int, bool) {
	for i, ln := range WinLines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return i, true
		}
	}
	return -1, false
}

// String renders the board as "X.O/.X./..O", "." marking empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		for x := 0; x < Size; x++ {
			c := b[x+y*Size]
			if c == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

func mustBeValid(pos BoardPos) {
	if !pos.Valid() {
		panic(fmt.Sprintf("%v: %v", ErrInvalidPos, pos))
	}
}
