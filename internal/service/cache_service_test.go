package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServiceHitAndMiss(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out float64
	hit, err := svc.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "key", 7.5, time.Minute))

	hit, err = svc.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.InDelta(t, 7.5, out, 1e-9)
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "key", 1, time.Minute))

	var out int
	hit, err := svc.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, svc.Enabled())
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "analytics:average:abc", 1, time.Minute))
	require.NoError(t, svc.Invalidate(ctx, "analytics:*"))

	var out int
	hit, err := svc.Get(ctx, "analytics:average:abc", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceNilReceiver(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())
}
