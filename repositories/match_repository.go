package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edhollow/pong-arena/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchSlotTaken         = errors.New("match slot already taken for this tournament")
	ErrMatchPlayerInvalid     = errors.New("match player conflict or invalid")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	ListByPlayer(ctx context.Context, userID int) ([]*models.Match, error)
	// SettleWinner выполняет атомарный compare-and-set: winner_id
	// переходит из NULL в значение ровно один раз. Возвращает
	// ErrMatchNotFound, если строка не обновилась — вызывающий обязан
	// различить "нет матча" и "уже рассчитан" повторным чтением.
	SettleWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, slot, player1_id, player2_id, winner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Slot,
		match.Player1ID,
		match.Player2ID,
		match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, slot, player1_id, player2_id, winner_id, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.Slot,
		&match.Player1ID,
		&match.Player2ID,
		&match.WinnerID,
		&match.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, slot, player1_id, player2_id, winner_id, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY slot ASC`

	return r.list(ctx, exec, query, tournamentID)
}

func (r *postgresMatchRepository) ListByPlayer(ctx context.Context, userID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, slot, player1_id, player2_id, winner_id, created_at
		FROM matches
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY created_at DESC, id DESC`

	return r.list(ctx, r.db, query, userID)
}

func (r *postgresMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Slot,
			&match.Player1ID,
			&match.Player2ID,
			&match.WinnerID,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) SettleWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int) error {
	// Единственная точка записи winner_id. Условие winner_id IS NULL
	// делает расчёт at-most-once даже при конкурентных вызовах.
	query := `
		UPDATE matches
		SET winner_id = $1
		WHERE id = $2 AND winner_id IS NULL`

	result, err := exec.ExecContext(ctx, query, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// "23503": foreign_key_violation
		// "23505": unique_violation
		switch pqErr.Constraint {
		case "matches_tournament_slot_key":
			return ErrMatchSlotTaken
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_player1_id_fkey", "matches_player2_id_fkey", "matches_winner_id_fkey", "matches_distinct_players_check":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
