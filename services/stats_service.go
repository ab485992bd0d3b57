package services

import (
	"context"
	"fmt"

	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/repositories"
)

// StatsService — агрегатор счётчиков игроков.
//
// ApplySettlement вызывается исключительно из транзакции расчёта матча
// (MatchService) и никогда самостоятельно: сам расчёт защищён
// compare-and-set и происходит не более одного раза, поэтому ровно один
// вызов на матч — и счётчики сходятся с журналом по построению.
type StatsService interface {
	ApplySettlement(ctx context.Context, exec repositories.SQLExecutor, player1ID, player2ID, winnerID int) error
	GetStats(ctx context.Context, userID int) (*models.PlayerStats, error)
}

type statsService struct {
	store     Store
	statsRepo repositories.StatsRepository
}

func NewStatsService(store Store, statsRepo repositories.StatsRepository) StatsService {
	return &statsService{
		store:     store,
		statsRepo: statsRepo,
	}
}

func (s *statsService) ApplySettlement(ctx context.Context, exec repositories.SQLExecutor, player1ID, player2ID, winnerID int) error {
	for _, playerID := range []int{player1ID, player2ID} {
		if err := s.statsRepo.EnsureRow(ctx, exec, playerID); err != nil {
			return err
		}
		if err := s.statsRepo.ApplyResult(ctx, exec, playerID, playerID == winnerID); err != nil {
			return fmt.Errorf("failed to apply settlement for player %d: %w", playerID, err)
		}
	}
	return nil
}

// GetStats лениво материализует нулевую строку, поэтому для любого
// существующего игрока запрос не падает, даже если он ещё не играл.
func (s *statsService) GetStats(ctx context.Context, userID int) (*models.PlayerStats, error) {
	if err := s.statsRepo.EnsureRow(ctx, s.store, userID); err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.GetByUser(ctx, s.store, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}
	return stats, nil
}
