package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 3

var ErrInvalidBoard = errors.New("invalid board")

// WinCombos lists rows, then columns, then the two diagonals.
var WinCombos = [8][3]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]Mark

// Action is the cell the mover marks.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Action) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

func (that Action) inRange() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// SearchResult is the solved value of a position and the move that attains it.
// Found is false when the position is terminal and no move exists.
type SearchResult struct {
	Value  int    `json:"value"`
	Action Action `json:"action"`
	Found  bool   `json:"found"`
}

// State wraps a single board. The mover is derived from mark counts, so a state
// is only meaningful if its board was built by alternating moves starting with X.
type State struct {
	board Board
}

func NewState() State {
	return State{}
}

func NewStateFromBoard(board Board) State {
	return State{board: board}
}

// Board returns a copy of the underlying board.
func (that State) Board() Board {
	return that.board
}

func (that State) Cell(row, col int) Mark {
	return that.board[row][col]
}

func (that State) count(mark Mark) int {
	n := 0
	for _, row := range that.board {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}
	return n
}

func (that State) MarkCount() int {
	return that.count(PlayerX) + that.count(PlayerO)
}

func (that State) CurrentMover() Mark {
	if that.count(PlayerX) == that.count(PlayerO) {
		return PlayerX
	}
	return PlayerO
}

// LegalActions returns the empty cells in row-major order.
func (that State) LegalActions() []Action {
	actions := make([]Action, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that.board[row][col] == EmptyCell {
				actions = append(actions, Action{Row: row, Col: col})
			}
		}
	}
	return actions
}

func (that State) IsLegal(action Action) bool {
	return action.inRange() && that.board[action.Row][action.Col] == EmptyCell
}

// ApplyAction returns the state after the current mover marks the given cell.
// The receiver is left untouched.
func (that State) ApplyAction(action Action) (State, error) {
	if !action.inRange() {
		return that, fmt.Errorf("%w: %s", apperror.ErrOutOfRange, action)
	}

	if that.board[action.Row][action.Col] != EmptyCell {
		return that, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidMove, action)
	}

	next := that.board
	next[action.Row][action.Col] = that.CurrentMover()

	return State{board: next}, nil
}

// Winner returns the mark of the first complete line, or EmptyCell.
func (that State) Winner() Mark {
	for _, combo := range WinCombos {
		a := that.board[combo[0].Row][combo[0].Col]
		b := that.board[combo[1].Row][combo[1].Col]
		c := that.board[combo[2].Row][combo[2].Col]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}
	return EmptyCell
}

func (that State) IsFull() bool {
	return that.MarkCount() == BoardSize*BoardSize
}

func (that State) IsTerminal() bool {
	return that.Winner() != EmptyCell || that.IsFull()
}

// Utility scores the board from X's point of view. It is only meaningful for terminal states.
func (that State) Utility() int {
	switch that.Winner() {
	case PlayerX:
		return 1
	case PlayerO:
		return -1
	default:
		return 0
	}
}

// Key encodes the board row-major with X, O and '.' for empty cells.
func (that State) Key() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize)
	for _, row := range that.board {
		for _, cell := range row {
			if cell == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}
	return sb.String()
}

// ParseState is the inverse of Key.
func ParseState(key string) (State, error) {
	if len(key) != BoardSize*BoardSize {
		return State{}, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, BoardSize*BoardSize, len(key))
	}

	var board Board
	for i, ch := range key {
		switch ch {
		case 'X':
			board[i/BoardSize][i%BoardSize] = PlayerX
		case 'O':
			board[i/BoardSize][i%BoardSize] = PlayerO
		case '.':
		default:
			return State{}, fmt.Errorf("%w: unexpected character %q at %d", ErrInvalidBoard, ch, i)
		}
	}

	return State{board: board}, nil
}

// String renders the board the way the console prints it.
func (that State) String() string {
	var sb strings.Builder
	for _, row := range that.board {
		cells := make([]string, 0, BoardSize)
		for _, cell := range row {
			if cell == EmptyCell {
				cells = append(cells, " ")
				continue
			}
			cells = append(cells, string(cell))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 5))
		sb.WriteString("\n")
	}
	return sb.String()
}
