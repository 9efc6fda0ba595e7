package cache

import (
	"context"
	"testing"
	"time"

	"shopsaver-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) CatalogFor(ctx context.Context, storeID int64) ([]models.CatalogEntry, error) {
	args := m.Called(ctx, storeID)
	entries, _ := args.Get(0).([]models.CatalogEntry)
	return entries, args.Error(1)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]models.CatalogEntry, error) {
	return nil, assert.AnError
}

func (failingCache) Set(context.Context, string, []models.CatalogEntry, time.Duration) error {
	return assert.AnError
}

func (failingCache) Delete(context.Context, string) error { return assert.AnError }

func TestCachedCatalog_ReadThrough(t *testing.T) {
	source := new(MockCatalogSource)
	source.On("CatalogFor", mock.Anything, int64(1)).Return(sampleCatalog(), nil).Once()

	mem := NewMemoryCache(0)
	defer mem.Close()
	c := NewCachedCatalog(source, mem, time.Minute)
	ctx := context.Background()

	first, err := c.CatalogFor(ctx, 1)
	require.NoError(t, err)
	second, err := c.CatalogFor(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	source.AssertNumberOfCalls(t, "CatalogFor", 1)
}

func TestCachedCatalog_Invalidate(t *testing.T) {
	source := new(MockCatalogSource)
	source.On("CatalogFor", mock.Anything, int64(1)).Return(sampleCatalog(), nil).Twice()

	mem := NewMemoryCache(0)
	defer mem.Close()
	c := NewCachedCatalog(source, mem, time.Minute)
	ctx := context.Background()

	_, err := c.CatalogFor(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 1))
	_, err = c.CatalogFor(ctx, 1)
	require.NoError(t, err)

	source.AssertExpectations(t)
}

func TestCachedCatalog_SourceErrorIsNotCached(t *testing.T) {
	source := new(MockCatalogSource)
	source.On("CatalogFor", mock.Anything, int64(9)).Return(nil, assert.AnError).Once()
	source.On("CatalogFor", mock.Anything, int64(9)).Return(sampleCatalog(), nil).Once()

	mem := NewMemoryCache(0)
	defer mem.Close()
	c := NewCachedCatalog(source, mem, time.Minute)
	ctx := context.Background()

	_, err := c.CatalogFor(ctx, 9)
	assert.ErrorIs(t, err, assert.AnError)

	got, err := c.CatalogFor(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	source.AssertExpectations(t)
}

func TestCachedCatalog_BrokenCacheFallsBackToSource(t *testing.T) {
	source := new(MockCatalogSource)
	source.On("CatalogFor", mock.Anything, int64(3)).Return(sampleCatalog(), nil)

	c := NewCachedCatalog(source, failingCache{}, time.Minute)

	got, err := c.CatalogFor(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
