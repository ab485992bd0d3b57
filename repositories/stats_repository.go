package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edhollow/pong-arena/models"
)

var ErrStatsNotFound = errors.New("player stats not found")

type StatsRepository interface {
	// EnsureRow лениво создаёт нулевую строку статистики, если её ещё нет.
	EnsureRow(ctx context.Context, exec SQLExecutor, userID int) error
	// ApplyResult инкрементирует games_played (и wins при won=true) ровно на 1.
	ApplyResult(ctx context.Context, exec SQLExecutor, userID int, won bool) error
	GetByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.PlayerStats, error)
}

type postgresStatsRepository struct{}

func NewPostgresStatsRepository() StatsRepository {
	return &postgresStatsRepository{}
}

func (r *postgresStatsRepository) EnsureRow(ctx context.Context, exec SQLExecutor, userID int) error {
	query := `
		INSERT INTO player_stats (user_id, games_played, wins)
		VALUES ($1, 0, 0)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := exec.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to ensure stats row for user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresStatsRepository) ApplyResult(ctx context.Context, exec SQLExecutor, userID int, won bool) error {
	winIncrement := 0
	if won {
		winIncrement = 1
	}

	query := `
		UPDATE player_stats
		SET games_played = games_played + 1, wins = wins + $1
		WHERE user_id = $2`

	result, err := exec.ExecContext(ctx, query, winIncrement, userID)
	if err != nil {
		return fmt.Errorf("failed to apply result for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrStatsNotFound)
}

func (r *postgresStatsRepository) GetByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.PlayerStats, error) {
	query := `
		SELECT user_id, games_played, wins
		FROM player_stats
		WHERE user_id = $1`

	stats := &models.PlayerStats{}
	err := exec.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.GamesPlayed,
		&stats.Wins,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan stats for user %d: %w", userID, err)
	}
	return stats, nil
}
