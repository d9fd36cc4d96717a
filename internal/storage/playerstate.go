package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// PlayerState operations (Redis-backed)

func playerStateKey(gameID, userID string) string {
	return "playerstate:" + gameID + ":" + userID
}

// SavePlayerState stores a player state under optimistic concurrency:
// the write succeeds only if the stored snapshot still carries the
// version this state was loaded with. On success the state's version
// is bumped. A version mismatch returns ErrConflict.
func (r *RedisStorage) SavePlayerState(ctx context.Context, ps *state.PlayerState) error {
	key := playerStateKey(ps.GameID, ps.UserID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if ps.Version != 0 {
				return ErrConflict
			}
		case err != nil:
			return fmt.Errorf("failed to read current player state: %w", err)
		default:
			var current state.PlayerState
			if err := json.Unmarshal([]byte(stored), &current); err != nil {
				return fmt.Errorf("failed to unmarshal stored player state: %w", err)
			}
			if current.Version != ps.Version {
				return ErrConflict
			}
		}

		ps.Version++
		ps.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(ps)
		if err != nil {
			ps.Version--
			return fmt.Errorf("failed to marshal player state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), 0)
			return nil
		})
		if err != nil {
			ps.Version--
		}
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// Another writer touched the key between read and write.
		err = ErrConflict
	}
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			r.logger.Error("Failed to save player state",
				"game_id", ps.GameID, "user_id", ps.UserID, "error", err)
		}
		return err
	}
	return nil
}

func (r *RedisStorage) LoadPlayerState(ctx context.Context, gameID, userID string) (*state.PlayerState, error) {
	key := playerStateKey(gameID, userID)
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found is not an error
		}
		r.logger.Error("Failed to load player state", "game_id", gameID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to load player state: %w", err)
	}

	var ps state.PlayerState
	if err := json.Unmarshal([]byte(cmd.Val()), &ps); err != nil {
		r.logger.Error("Failed to unmarshal player state", "game_id", gameID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal player state: %w", err)
	}

	return &ps, nil
}

func (r *RedisStorage) DeletePlayerState(ctx context.Context, gameID, userID string) error {
	key := playerStateKey(gameID, userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete player state", "game_id", gameID, "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete player state: %w", err)
	}
	return nil
}
