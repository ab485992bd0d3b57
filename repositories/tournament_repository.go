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
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentHostInvalid   = errors.New("tournament host conflict or invalid")
	ErrTournamentPlayerInvalid = errors.New("tournament player conflict or invalid")
)

type TournamentRepository interface {
	// Create сохраняет турнир и его ростер (в порядке посева) одной транзакцией вызывающего.
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate берёт блокировку строки турнира (SELECT ... FOR UPDATE),
	// сериализуя создание матчей по одному турниру. Требует *sql.Tx в exec.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (host_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		tournament.HostID,
		tournament.Status,
	).Scan(&tournament.ID, &tournament.CreatedAt)
	if err != nil {
		return r.handleTournamentError(err)
	}

	rosterQuery := `
		INSERT INTO tournament_players (tournament_id, user_id, position)
		VALUES ($1, $2, $3)`

	for position, userID := range tournament.Roster {
		if _, err := exec.ExecContext(ctx, rosterQuery, tournament.ID, userID, position); err != nil {
			return r.handleTournamentError(err)
		}
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.getByID(ctx, exec, id, false)
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.getByID(ctx, exec, id, true)
}

func (r *postgresTournamentRepository) getByID(ctx context.Context, exec SQLExecutor, id int, forUpdate bool) (*models.Tournament, error) {
	query := `
		SELECT id, host_id, status, created_at
		FROM tournaments
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	tournament := &models.Tournament{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.HostID,
		&tournament.Status,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}

	rosterQuery := `
		SELECT user_id
		FROM tournament_players
		WHERE tournament_id = $1
		ORDER BY position ASC`

	rows, err := exec.QueryContext(ctx, rosterQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster for tournament %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int
		if scanErr := rows.Scan(&userID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		tournament.Roster = append(tournament.Roster, userID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during roster rows iteration: %w", err)
	}

	return tournament, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// "23503": foreign_key_violation
		switch pqErr.Constraint {
		case "tournaments_host_id_fkey":
			return ErrTournamentHostInvalid
		case "tournament_players_user_id_fkey", "tournament_players_position_key", "tournament_players_pkey":
			return ErrTournamentPlayerInvalid
		}
	}
	return err
}
