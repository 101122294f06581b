package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstCellBot always answers with the first empty cell in row-major order.
type firstCellBot struct {
	mark entity.Mark
}

func (that *firstCellBot) BotMark() entity.Mark {
	return that.mark
}

func (that *firstCellBot) MakeHumanTurn(_ context.Context, state entity.State, action entity.Action) (entity.State, error) {
	return state.ApplyAction(action)
}

func (that *firstCellBot) MakeBotTurn(_ context.Context, state entity.State) (entity.State, error) {
	if state.IsTerminal() || state.CurrentMover() != that.mark {
		return state, nil
	}
	return state.ApplyAction(state.LegalActions()[0])
}

// brokenGamePlay fails every human move with an error unrelated to the move itself.
type brokenGamePlay struct {
	firstCellBot
}

func (that *brokenGamePlay) MakeHumanTurn(_ context.Context, state entity.State, _ entity.Action) (entity.State, error) {
	return state, errBotUnavailable
}

var errBotUnavailable = errors.New("bot unavailable")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsole_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Human wins against a naive bot", func(t *testing.T) {
		// Given: X fills the first column while the bot fills the top row
		in := strings.NewReader("0\n0\n1\n0\n2\n0\n")
		out := &bytes.Buffer{}
		game := New(newTestLogger(), in, out, &firstCellBot{mark: entity.PlayerO})

		// When: the game is played
		state, err := game.Run(ctx)

		// Then: X wins and the result is printed
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, state.Winner())
		assert.Contains(t, out.String(), "Player X's turn")
		assert.Contains(t, out.String(), "Player O's turn (AI)")
		assert.Contains(t, out.String(), "Player X wins!")

		// Then: the board is shown after the human move, before the bot answers
		assert.Equal(t, 2, strings.Count(out.String(), "Player O's turn (AI)"))
		assert.Contains(t, out.String(), "X |   |  \n-----\n  |   |  \n-----\n  |   |  \n-----\nPlayer O's turn (AI)")
	})

	t.Run("Occupied cell is rejected", func(t *testing.T) {
		// Given: X tries the cell the bot just took before finishing the column
		in := strings.NewReader("0\n0\n0\n1\n1\n0\n2\n0\n")
		out := &bytes.Buffer{}
		game := New(newTestLogger(), in, out, &firstCellBot{mark: entity.PlayerO})

		// When: the game is played
		state, err := game.Run(ctx)

		// Then: the move is refused and the game goes on
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Invalid move. Try again.")
		assert.Equal(t, entity.PlayerX, state.Winner())
	})

	t.Run("Out of range and non-numeric input are rejected", func(t *testing.T) {
		in := strings.NewReader("x\n5\n0\n")
		out := &bytes.Buffer{}
		game := New(newTestLogger(), in, out, &firstCellBot{mark: entity.PlayerO})

		_, err := game.Run(ctx)

		require.Error(t, err)
		assert.True(t, IsEOF(err))
		assert.Contains(t, out.String(), "Please enter a number.")
		assert.Contains(t, out.String(), "Invalid move. Try again.")
	})

	t.Run("Stops on closed input", func(t *testing.T) {
		game := New(newTestLogger(), strings.NewReader(""), &bytes.Buffer{}, &firstCellBot{mark: entity.PlayerO})

		_, err := game.Run(ctx)

		assert.True(t, IsEOF(err))
	})

	t.Run("Stops on canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		game := New(newTestLogger(), strings.NewReader(""), &bytes.Buffer{}, &firstCellBot{mark: entity.PlayerO})

		_, err := game.Run(canceled)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Stops on cancel while waiting for input", func(t *testing.T) {
		// Given: an input that never delivers a line
		reader, writer := io.Pipe()
		t.Cleanup(func() {
			_ = writer.Close()
		})

		cancelable, cancel := context.WithCancel(ctx)
		game := New(newTestLogger(), reader, &bytes.Buffer{}, &firstCellBot{mark: entity.PlayerO})

		done := make(chan error, 1)
		go func() {
			_, err := game.Run(cancelable)
			done <- err
		}()

		// When: the context is canceled while the prompt is waiting
		time.Sleep(50 * time.Millisecond)
		cancel()

		// Then: Run returns promptly with the cancellation
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after the context was canceled")
		}
	})

	t.Run("Failure other than an invalid move is returned", func(t *testing.T) {
		// Given: a game play service that fails for a reason unrelated to the move
		out := &bytes.Buffer{}
		game := New(newTestLogger(), strings.NewReader("0\n0\n"), out, &brokenGamePlay{firstCellBot{mark: entity.PlayerO}})

		// When: the human moves
		_, err := game.Run(ctx)

		// Then: the failure is reported instead of being treated as an invalid move
		require.ErrorIs(t, err, errBotUnavailable)
		assert.NotContains(t, out.String(), "Invalid move. Try again.")
	})

	t.Run("Optimal bot never loses", func(t *testing.T) {
		// Given: the optimal bot opens as X and the human cycles through every cell
		logger := newTestLogger()
		bot := service.NewBotService(logger, tictactoe.NewEngine(), nil)
		gamePlay := service.NewGamePlayService(logger, bot, entity.PlayerX)

		var sb strings.Builder
		for range 5 {
			for row := range 3 {
				for col := range 3 {
					fmt.Fprintf(&sb, "%d\n%d\n", row, col)
				}
			}
		}

		out := &bytes.Buffer{}
		game := New(logger, strings.NewReader(sb.String()), out, gamePlay)

		// When: the game is played
		state, err := game.Run(ctx)

		// Then: the human never wins
		require.NoError(t, err)
		assert.True(t, state.IsTerminal())
		assert.NotEqual(t, entity.PlayerO, state.Winner())
		assert.NotContains(t, out.String(), "Player O wins!")
	})
}
