package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Manager はセッションごとにカートの更新を直列化する。
// 同じセッションへの同時更新で変更が失われないようにする（複数レプリカでも）。
type Manager struct {
	carts repo.CartRepository
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*entry
}

// DI
func NewManager(carts repo.CartRepository) *Manager {
	return &Manager{
		carts: carts,
		now:   time.Now,
		locks: map[string]*entry{},
	}
}

func (m *Manager) acquire(sessionID string) *entry {
	m.mu.Lock()
	e, ok := m.locks[sessionID]
	if !ok {
		e = &entry{}
		m.locks[sessionID] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
	return e
}

func (m *Manager) release(sessionID string, e *entry) {
	e.mu.Unlock()

	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, sessionID)
	}
	m.mu.Unlock()
}

func (m *Manager) load(ctx context.Context, sessionID string) (*cart.Store, error) {
	snap, found, err := m.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return cart.New(), nil
	}
	return cart.FromSnapshot(snap), nil
}

// Read は現在のカートを返す（ロックも保存もしない）。
func (m *Manager) Read(ctx context.Context, sessionID string) (*cart.Store, error) {
	return m.load(ctx, sessionID)
}

// Mutate はロックを取ってカートを読み込み、fnが成功したときだけ保存する。
// プロセス内はロックで、レプリカ間は保存先の楽観的更新で直列化する。
// 他のレプリカと競合したときは最新のカートでfnがもう一度呼ばれる。
func (m *Manager) Mutate(ctx context.Context, sessionID string, fn func(s *cart.Store) error) (*cart.Store, error) {
	e := m.acquire(sessionID)
	defer m.release(sessionID, e)

	var result *cart.Store
	err := m.carts.Update(ctx, sessionID, func(current model.CartSnapshot, found bool) (*model.CartSnapshot, error) {
		s := cart.New()
		if found {
			s = cart.FromSnapshot(current)
		}
		if err := fn(s); err != nil {
			return nil, err
		}
		result = s

		if s.IsEmpty() && s.DiscountCode() == "" {
			return nil, nil
		}
		snap := s.Snapshot(sessionID, m.now().UTC())
		return &snap, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete はセッションのカートを破棄する（注文確定後など）。
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	e := m.acquire(sessionID)
	defer m.release(sessionID, e)

	return m.carts.Delete(ctx, sessionID)
}

// 保持中のロック数（テスト用）
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
