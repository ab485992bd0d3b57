package services

import (
	"context"
	"testing"

	"github.com/edhollow/pong-arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats_LazyZeroRow(t *testing.T) {
	statsRepo := newStubStatsRepo()
	svc := NewStatsService(&stubStore{}, statsRepo)

	// Игрок без единого матча получает нули, а не ошибку.
	stats, err := svc.GetStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &models.PlayerStats{UserID: 7, GamesPlayed: 0, Wins: 0}, stats)
}

func TestApplySettlement(t *testing.T) {
	ctx := context.Background()
	statsRepo := newStubStatsRepo()
	svc := NewStatsService(&stubStore{}, statsRepo)

	require.NoError(t, svc.ApplySettlement(ctx, nil, 1, 2, 1))

	stats, err := svc.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)

	stats, err = svc.GetStats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 0, stats.Wins)

	// Второй расчёт с теми же игроками даёт ровно ещё один инкремент.
	require.NoError(t, svc.ApplySettlement(ctx, nil, 1, 2, 2))

	stats, err = svc.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)

	stats, err = svc.GetStats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)
}
