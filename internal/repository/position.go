package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

var ErrPositionNotFound = errors.New("position not found")

// PositionRepository stores solved positions keyed by entity.State.Key.
type PositionRepository interface {
	Save(ctx context.Context, key string, result entity.SearchResult) error
	GetByKey(ctx context.Context, key string) (entity.SearchResult, error)
	DeleteByKey(ctx context.Context, key string) error
}

type dbPosition struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPositionRepository returns a Redis backed repository. A zero ttl keeps entries forever.
func NewPositionRepository(client *redis.Client, ttl time.Duration) PositionRepository {
	return &dbPosition{
		client: client,
		ttl:    ttl,
	}
}

func positionKey(key string) string {
	return "position:" + key
}

func (that *dbPosition) Save(ctx context.Context, key string, result entity.SearchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal position: %w", err)
	}

	if err = that.client.Set(ctx, positionKey(key), resultJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}

	return nil
}

func (that *dbPosition) GetByKey(ctx context.Context, key string) (entity.SearchResult, error) {
	response, err := that.client.Get(ctx, positionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.SearchResult{}, ErrPositionNotFound
	}

	if err != nil {
		return entity.SearchResult{}, fmt.Errorf("failed to get position %s: %w", key, err)
	}

	var result entity.SearchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return entity.SearchResult{}, fmt.Errorf("failed to unmarshal position: %w", err)
	}

	return result, nil
}

func (that *dbPosition) DeleteByKey(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, positionKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	return nil
}
