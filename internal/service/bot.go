package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
)

type BotService interface {
	MakeTurn(ctx context.Context, state entity.State) (entity.State, entity.Action, error)
}

type engine interface {
	Solve(state entity.State) entity.SearchResult
}

type positionRepo interface {
	Save(ctx context.Context, key string, result entity.SearchResult) error
	GetByKey(ctx context.Context, key string) (entity.SearchResult, error)
}

type botService struct {
	logger *slog.Logger

	engine       engine
	positionRepo positionRepo
}

// NewBotService builds the automated player. positionRepo may be nil, in which case every move is searched.
func NewBotService(logger *slog.Logger, engine engine, positionRepo positionRepo) BotService {
	return &botService{
		logger:       logger,
		engine:       engine,
		positionRepo: positionRepo,
	}
}

func (that *botService) MakeTurn(ctx context.Context, state entity.State) (entity.State, entity.Action, error) {
	if state.IsTerminal() {
		return state, entity.Action{}, apperror.ErrGameFinished
	}

	result := that.solve(ctx, state)
	if !result.Found {
		return state, entity.Action{}, apperror.ErrGameFinished
	}

	next, err := state.ApplyAction(result.Action)
	if err != nil {
		return state, entity.Action{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return next, result.Action, nil
}

func (that *botService) solve(ctx context.Context, state entity.State) entity.SearchResult {
	log := that.logger.With("method", "solve", "board", state.Key())

	if that.positionRepo == nil {
		return that.engine.Solve(state)
	}

	cached, err := that.positionRepo.GetByKey(ctx, state.Key())
	switch {
	case err == nil && state.IsLegal(cached.Action):
		log.Debug("position found in cache", "action", cached.Action.String())
		return cached
	case err == nil:
		log.Warn("ignoring cached position with illegal action", "action", cached.Action.String())
	case !errors.Is(err, repository.ErrPositionNotFound):
		log.Warn("failed to read position from cache", "error", err)
	}

	result := that.engine.Solve(state)

	if err = that.positionRepo.Save(ctx, state.Key(), result); err != nil {
		log.Warn("failed to save position to cache", "error", err)
	}

	return result
}
