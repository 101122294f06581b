package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

const (
	colorX = "#E06C75"
	colorO = "#61AFEF"
)

type gamePlayService interface {
	BotMark() entity.Mark
	MakeHumanTurn(ctx context.Context, state entity.State, action entity.Action) (entity.State, error)
	MakeBotTurn(ctx context.Context, state entity.State) (entity.State, error)
}

// Console plays one game between a human on a terminal and the bot.
type Console struct {
	logger *slog.Logger

	in  io.Reader
	out *termenv.Output

	gamePlay gamePlayService
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, gamePlay gamePlayService) *Console {
	return &Console{
		logger:   logger.With("component", "console"),
		in:       in,
		out:      termenv.NewOutput(out),
		gamePlay: gamePlay,
	}
}

// inputLine is one line read from the terminal, or the error that ended reading.
type inputLine struct {
	text string
	err  error
}

// Run plays until the game ends and returns the final state.
// It returns as soon as ctx is canceled, even while waiting for input.
func (that *Console) Run(ctx context.Context) (entity.State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := that.readLines(ctx)
	state := entity.NewState()

	for !state.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("game interrupted: %w", err)
		}

		that.printBoard(state)

		mover := state.CurrentMover()
		if mover == that.gamePlay.BotMark() {
			that.printf("Player %s's turn (AI)\n", mover)

			next, err := that.gamePlay.MakeBotTurn(ctx, state)
			if err != nil {
				return state, fmt.Errorf("failed to make bot turn: %w", err)
			}

			state = next
			continue
		}

		that.printf("Player %s's turn\n", mover)

		action, err := that.readAction(ctx, lines)
		if err != nil {
			return state, err
		}

		next, err := that.gamePlay.MakeHumanTurn(ctx, state, action)
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.printf("Invalid move. Try again.\n")
			continue
		}

		if err != nil {
			return state, fmt.Errorf("failed to make turn %s: %w", action, err)
		}

		state = next
	}

	that.printBoard(state)
	that.printResult(state)

	return state, nil
}

// readLines scans input in the background so that a blocked read never delays cancellation.
// A read already in progress when ctx is done still finishes; its line is dropped.
func (that *Console) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}

		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}

		select {
		case lines <- inputLine{err: err}:
		case <-ctx.Done():
		}
	}()

	return lines
}

func (that *Console) readAction(ctx context.Context, lines <-chan inputLine) (entity.Action, error) {
	row, err := that.readCoordinate(ctx, lines, "Enter row (0, 1, 2): ")
	if err != nil {
		return entity.Action{}, err
	}

	col, err := that.readCoordinate(ctx, lines, "Enter column (0, 1, 2): ")
	if err != nil {
		return entity.Action{}, err
	}

	return entity.Action{Row: row, Col: col}, nil
}

func (that *Console) readCoordinate(ctx context.Context, lines <-chan inputLine, prompt string) (int, error) {
	for {
		that.printf("%s", prompt)

		var line inputLine
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("game interrupted: %w", ctx.Err())
		case received, ok := <-lines:
			if !ok {
				return 0, fmt.Errorf("failed to read input: %w", io.EOF)
			}
			line = received
		}

		if line.err != nil {
			return 0, fmt.Errorf("failed to read input: %w", line.err)
		}

		value, err := strconv.Atoi(strings.TrimSpace(line.text))
		if err != nil {
			that.printf("Please enter a number.\n")
			continue
		}

		return value, nil
	}
}

func (that *Console) printBoard(state entity.State) {
	for row := range entity.BoardSize {
		cells := make([]string, 0, entity.BoardSize)
		for col := range entity.BoardSize {
			cells = append(cells, that.styleMark(state.Cell(row, col)))
		}
		that.printf("%s\n%s\n", strings.Join(cells, " | "), strings.Repeat("-", 5))
	}
}

func (that *Console) styleMark(mark entity.Mark) string {
	switch mark {
	case entity.PlayerX:
		return that.out.String(string(mark)).Foreground(that.out.Color(colorX)).Bold().String()
	case entity.PlayerO:
		return that.out.String(string(mark)).Foreground(that.out.Color(colorO)).Bold().String()
	default:
		return " "
	}
}

func (that *Console) printResult(state entity.State) {
	if winner := state.Winner(); winner != entity.EmptyCell {
		that.printf("Player %s wins!\n", winner)
		return
	}
	that.printf("It's a tie!\n")
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// IsEOF reports whether Run stopped because the input was closed.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
