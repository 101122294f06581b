package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solver/transport/console"
)

var (
	ErrAddrNotFound     = errors.New("redis address string is empty")
	ErrInvalidHumanMark = errors.New("human mark must be X or O")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	botMark, err := botMarkFor(conf.HumanMark)
	if err != nil {
		return err
	}

	engine := tictactoe.NewEngine(tictactoe.WithLogger(logger.With("component", "engine")))
	botService := service.NewBotService(logger, engine, nil)

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		positionRepo := repository.NewPositionRepository(redisStorage, conf.Redis.TTL)
		botService = service.NewBotService(logger, engine, positionRepo)
		log.Info("Position cache enabled", "addr", redisAddrString)
	}

	gamePlayService := service.NewGamePlayService(logger, botService, botMark)

	game := console.New(logger, os.Stdin, os.Stdout, gamePlayService)

	state, err := game.Run(ctx)
	switch {
	case console.IsEOF(err):
		log.Info("Input closed, game abandoned", "board", state.Key())
		return nil
	case errors.Is(err, context.Canceled):
		log.Info("Application context canceled, shutting down")
		return nil
	case err != nil:
		return fmt.Errorf("game failed: %w", err)
	}

	log.Info("Game finished", "board", state.Key(), "winner", state.Winner())

	return nil
}

func botMarkFor(humanMark string) (entity.Mark, error) {
	switch entity.Mark(humanMark) {
	case entity.PlayerX:
		return entity.PlayerO, nil
	case entity.PlayerO:
		return entity.PlayerX, nil
	default:
		return entity.EmptyCell, fmt.Errorf("%w: %q", ErrInvalidHumanMark, humanMark)
	}
}
