package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var laptop = cart.Product{ID: "laptop", Name: "Laptop", UnitPrice: decimal.NewFromInt(1000)}

func TestManager_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	m := NewManager(infraRepo.NewCartMemoryRepository())

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Mutate(ctx, "s1", func(s *cart.Store) error {
				return s.AddItem(laptop, 1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := m.Read(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), s.ItemCount())
	assert.Equal(t, 0, m.activeLocks())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(infraRepo.NewCartMemoryRepository())

	_, err := m.Mutate(ctx, "a", func(s *cart.Store) error { return s.AddItem(laptop, 2) })
	require.NoError(t, err)

	b, err := m.Read(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())

	a, err := m.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.ItemCount())
}

func TestManager_FailedMutationIsNotSaved(t *testing.T) {
	ctx := context.Background()
	m := NewManager(infraRepo.NewCartMemoryRepository())

	_, err := m.Mutate(ctx, "s1", func(s *cart.Store) error { return s.AddItem(laptop, 1) })
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Mutate(ctx, "s1", func(s *cart.Store) error {
		s.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := m.Read(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ItemCount())
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewManager(infraRepo.NewCartMemoryRepository())

	_, err := m.Mutate(ctx, "s1", func(s *cart.Store) error { return s.AddItem(laptop, 1) })
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, "s1"))

	s, err := m.Read(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
}

// 同じ保存先を共有する2つのManager（2レプリカ相当）
func TestManager_ReplicasSharingOneStoreDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	carts := &slowLoadRepository{CartMemoryRepository: infraRepo.NewCartMemoryRepository(), delay: time.Millisecond}
	replicas := []*Manager{NewManager(carts), NewManager(carts)}

	const adds = 60
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(m *Manager) {
			defer wg.Done()
			_, err := m.Mutate(ctx, "s1", func(s *cart.Store) error {
				return s.AddItem(laptop, 1)
			})
			assert.NoError(t, err)
		}(replicas[i%2])
	}
	wg.Wait()

	s, err := replicas[0].Read(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(adds), s.ItemCount())
}

func TestManager_MutateReturnsLatestStateAfterConflict(t *testing.T) {
	ctx := context.Background()
	carts := infraRepo.NewCartMemoryRepository()
	m := NewManager(carts)
	other := NewManager(carts)

	calls := 0
	s, err := m.Mutate(ctx, "s1", func(s *cart.Store) error {
		calls++
		if calls == 1 {
			_, err := other.Mutate(ctx, "s1", func(o *cart.Store) error { return o.AddItem(laptop, 2) })
			require.NoError(t, err)
		}
		return s.AddItem(laptop, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(3), s.ItemCount())
}

// 保存先の往復（Redis）を遅延で再現する
type slowLoadRepository struct {
	*infraRepo.CartMemoryRepository
	delay time.Duration
}

func (r *slowLoadRepository) Update(ctx context.Context, sessionID string, fn repo.CartUpdateFunc) error {
	return r.CartMemoryRepository.Update(ctx, sessionID, func(current model.CartSnapshot, found bool) (*model.CartSnapshot, error) {
		time.Sleep(r.delay)
		return fn(current, found)
	})
}
