package repository

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type memoryCart struct {
	snap    model.CartSnapshot
	version uint64
}

// Redisが無い環境（開発・テスト）用のカート保存。
// 書き込みごとにversionを進め、Updateはversionが変わっていたらやり直す。
type CartMemoryRepository struct {
	mu    sync.RWMutex
	seq   uint64
	carts map[string]memoryCart
}

func NewCartMemoryRepository() *CartMemoryRepository {
	return &CartMemoryRepository{carts: make(map[string]memoryCart)}
}

func (r *CartMemoryRepository) Load(_ context.Context, sessionID string) (model.CartSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[sessionID]
	if !ok {
		return model.CartSnapshot{}, false, nil
	}
	return cloneSnapshot(c.snap), true, nil
}

func (r *CartMemoryRepository) Save(_ context.Context, snapshot model.CartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(snapshot)
	return nil
}

func (r *CartMemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

func (r *CartMemoryRepository) Update(ctx context.Context, sessionID string, fn repo.CartUpdateFunc) error {
	for i := 0; i < repo.MaxCartUpdateAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.mu.RLock()
		before, found := r.carts[sessionID]
		r.mu.RUnlock()

		next, err := fn(cloneSnapshot(before.snap), found)
		if err != nil {
			return err
		}

		r.mu.Lock()
		now, stillFound := r.carts[sessionID]
		if stillFound != found || now.version != before.version {
			r.mu.Unlock()
			continue
		}
		if next == nil {
			delete(r.carts, sessionID)
		} else {
			r.put(*next)
		}
		r.mu.Unlock()
		return nil
	}
	return fmt.Errorf("update cart %s: %w", sessionID, repo.ErrConflict)
}

// ロック済みで呼ぶ
func (r *CartMemoryRepository) put(snapshot model.CartSnapshot) {
	r.seq++
	r.carts[snapshot.SessionID] = memoryCart{snap: cloneSnapshot(snapshot), version: r.seq}
}

func cloneSnapshot(s model.CartSnapshot) model.CartSnapshot {
	if s.Items == nil {
		return s
	}
	items := make([]model.LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
