package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWatchlistRepo struct {
	mu    sync.Mutex
	items []entity.WatchlistItem
}

func (f *fakeWatchlistRepo) Create(ctx context.Context, item *entity.WatchlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeWatchlistRepo) FindAll(ctx context.Context) ([]entity.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.WatchlistItem(nil), f.items...), nil
}

func (f *fakeWatchlistRepo) FindDue(ctx context.Context, now time.Time) ([]entity.WatchlistItem, error) {
	return nil, nil
}

func (f *fakeWatchlistRepo) Update(ctx context.Context, item *entity.WatchlistItem) error {
	return nil
}

func (f *fakeWatchlistRepo) DeleteByTicker(ctx context.Context, ticker string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.Ticker != ticker {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func TestWatchlistService_Create(t *testing.T) {
	repo := &fakeWatchlistRepo{}
	svc := NewWatchlistService(repo, newTestLogger(t))

	item, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		Ticker:         "acme",
		CronExpression: "0 9 * * 1-5",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME", item.Ticker)
	assert.True(t, item.IsActive)

	items, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWatchlistService_CreateValidation(t *testing.T) {
	svc := NewWatchlistService(&fakeWatchlistRepo{}, newTestLogger(t))

	_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		Ticker:         "not a ticker",
		CronExpression: "0 9 * * *",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		Ticker:         "ACME",
		CronExpression: "every tuesday",
	})
	assert.Error(t, err)
}

func TestWatchlistService_Delete(t *testing.T) {
	repo := &fakeWatchlistRepo{}
	svc := NewWatchlistService(repo, newTestLogger(t))

	_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		Ticker:         "ACME",
		CronExpression: "@hourly",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "acme"))
	items, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
