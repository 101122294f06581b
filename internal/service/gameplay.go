package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

type GamePlayService interface {
	BotMark() entity.Mark
	MakeTurn(ctx context.Context, state entity.State, action entity.Action) (entity.State, error)
	MakeHumanTurn(ctx context.Context, state entity.State, action entity.Action) (entity.State, error)
	MakeBotTurn(ctx context.Context, state entity.State) (entity.State, error)
}

type gamePlayService struct {
	logger *slog.Logger

	botService BotService
	botMark    entity.Mark
}

func NewGamePlayService(logger *slog.Logger, botService BotService, botMark entity.Mark) GamePlayService {
	return &gamePlayService{
		logger:     logger,
		botService: botService,
		botMark:    botMark,
	}
}

func (that *gamePlayService) BotMark() entity.Mark {
	return that.botMark
}

// MakeTurn applies the human move and, if the game goes on, the bot's reply.
func (that *gamePlayService) MakeTurn(ctx context.Context, state entity.State, action entity.Action) (entity.State, error) {
	next, err := that.MakeHumanTurn(ctx, state, action)
	if err != nil {
		return state, err
	}

	return that.MakeBotTurn(ctx, next)
}

// MakeHumanTurn applies only the human move.
func (that *gamePlayService) MakeHumanTurn(_ context.Context, state entity.State, action entity.Action) (entity.State, error) {
	if state.IsTerminal() {
		return state, apperror.ErrGameFinished
	}

	if state.CurrentMover() == that.botMark {
		return state, fmt.Errorf("%w: it is %s's turn", apperror.ErrInvalidMove, that.botMark)
	}

	next, err := state.ApplyAction(action)
	if err != nil {
		return state, fmt.Errorf("failed to make turn: %w", err)
	}

	return next, nil
}

// MakeBotTurn lets the bot move when it is its turn and returns the state unchanged otherwise.
func (that *gamePlayService) MakeBotTurn(ctx context.Context, state entity.State) (entity.State, error) {
	if state.IsTerminal() || state.CurrentMover() != that.botMark {
		return state, nil
	}

	next, action, err := that.botService.MakeTurn(ctx, state)
	if err != nil {
		return state, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Info("bot made a turn", "mark", that.botMark, "action", action.String())

	return next, nil
}
