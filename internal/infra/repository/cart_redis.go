package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:session:"

// セッションカートをRedisにJSONで保存する。
// ttlを過ぎたカートは自然に消える（0なら無期限）。
type CartRedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartRedisRepository(rdb *redis.Client, ttl time.Duration) *CartRedisRepository {
	return &CartRedisRepository{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

func (r *CartRedisRepository) Load(ctx context.Context, sessionID string) (model.CartSnapshot, bool, error) {
	raw, err := r.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CartSnapshot{}, false, nil
	}
	if err != nil {
		return model.CartSnapshot{}, false, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	var snap model.CartSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.CartSnapshot{}, false, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	return snap, true, nil
}

func (r *CartRedisRepository) Save(ctx context.Context, snapshot model.CartSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", snapshot.SessionID, err)
	}
	if err := r.rdb.Set(ctx, cartKey(snapshot.SessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", snapshot.SessionID, err)
	}
	return nil
}

func (r *CartRedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}

// Update はWATCHしたキーをMULTI/EXECで書き換える。
// EXECまでに他のレプリカが同じキーを更新したらredis.TxFailedErrになるのでやり直す。
func (r *CartRedisRepository) Update(ctx context.Context, sessionID string, fn repo.CartUpdateFunc) error {
	key := cartKey(sessionID)

	txf := func(tx *redis.Tx) error {
		var (
			current model.CartSnapshot
			found   bool
		)
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("load cart %s: %w", sessionID, err)
		default:
			if err := json.Unmarshal(raw, &current); err != nil {
				return fmt.Errorf("decode cart %s: %w", sessionID, err)
			}
			found = true
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		var payload []byte
		if next != nil {
			if payload, err = json.Marshal(next); err != nil {
				return fmt.Errorf("encode cart %s: %w", sessionID, err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("save cart %s: %w", sessionID, err)
		}
		return err
	}

	for i := 0; i < repo.MaxCartUpdateAttempts; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update cart %s: %w", sessionID, repo.ErrConflict)
}
