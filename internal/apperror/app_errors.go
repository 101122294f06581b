package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfRange   = fmt.Errorf("%w: cell is out of range", ErrInvalidMove)
	ErrGameFinished = errors.New("game is already finished")
)
