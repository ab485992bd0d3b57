package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubStore исполняет fn прямо на себе: заглушечные репозитории держат
// состояние в памяти и не трогают SQLExecutor.
type stubStore struct {
	repositories.SQLExecutor
	beginErr error
	txCount  int
}

func (s *stubStore) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	s.txCount++
	return fn(s)
}

type stubTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newStubTournamentRepo() *stubTournamentRepo {
	return &stubTournamentRepo{tournaments: make(map[int]*models.Tournament)}
}

func (r *stubTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, tournament *models.Tournament) error {
	r.nextID++
	tournament.ID = r.nextID
	tournament.CreatedAt = time.Now()

	stored := *tournament
	stored.Roster = append([]int(nil), tournament.Roster...)
	r.tournaments[stored.ID] = &stored
	return nil
}

func (r *stubTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByIDForUpdate(ctx, exec, id)
}

func (r *stubTournamentRepo) GetByIDForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	stored, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *stored
	copied.Roster = append([]int(nil), stored.Roster...)
	return &copied, nil
}

func (r *stubTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	stored, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	stored.Status = status
	return nil
}

type stubMatchRepo struct {
	nextID    int
	matches   map[int]*models.Match
	createErr error
	settleErr error
}

func newStubMatchRepo() *stubMatchRepo {
	return &stubMatchRepo{matches: make(map[int]*models.Match)}
}

func (r *stubMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	match.ID = r.nextID
	match.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Second)

	stored := *match
	r.matches[stored.ID] = &stored
	return nil
}

func (r *stubMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	stored, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *stubMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, stored := range r.matches {
		if stored.TournamentID != nil && *stored.TournamentID == tournamentID {
			copied := *stored
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return *matches[i].Slot < *matches[j].Slot })
	return matches, nil
}

func (r *stubMatchRepo) ListByPlayer(_ context.Context, userID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, stored := range r.matches {
		if stored.Player1ID == userID || stored.Player2ID == userID {
			copied := *stored
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches, nil
}

func (r *stubMatchRepo) SettleWinner(_ context.Context, _ repositories.SQLExecutor, id int, winnerID int) error {
	if r.settleErr != nil {
		return r.settleErr
	}
	// Зеркалит CAS: 0 затронутых строк неотличимо от отсутствия матча.
	stored, ok := r.matches[id]
	if !ok || stored.WinnerID != nil {
		return repositories.ErrMatchNotFound
	}
	stored.WinnerID = &winnerID
	return nil
}

// settle выставляет победителя напрямую, минуя сервисный слой.
func (r *stubMatchRepo) settle(id, winnerID int) {
	r.matches[id].WinnerID = &winnerID
}

type stubStatsRepo struct {
	rows map[int]*models.PlayerStats
}

func newStubStatsRepo() *stubStatsRepo {
	return &stubStatsRepo{rows: make(map[int]*models.PlayerStats)}
}

func (r *stubStatsRepo) EnsureRow(_ context.Context, _ repositories.SQLExecutor, userID int) error {
	if _, ok := r.rows[userID]; !ok {
		r.rows[userID] = &models.PlayerStats{UserID: userID}
	}
	return nil
}

func (r *stubStatsRepo) ApplyResult(_ context.Context, _ repositories.SQLExecutor, userID int, won bool) error {
	row, ok := r.rows[userID]
	if !ok {
		return repositories.ErrStatsNotFound
	}
	row.GamesPlayed++
	if won {
		row.Wins++
	}
	return nil
}

func (r *stubStatsRepo) GetByUser(_ context.Context, _ repositories.SQLExecutor, userID int) (*models.PlayerStats, error) {
	row, ok := r.rows[userID]
	if !ok {
		return nil, repositories.ErrStatsNotFound
	}
	copied := *row
	return &copied, nil
}

type stubDirectory struct {
	names map[int]string
}

func (d *stubDirectory) ResolveAll(_ context.Context, ids []int) (map[int]bool, error) {
	existing := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, ok := d.names[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (d *stubDirectory) DisplayName(_ context.Context, id int) (string, error) {
	name, ok := d.names[id]
	if !ok {
		return "", ErrPlayerNotFound
	}
	return name, nil
}

type broadcastRecord struct {
	roomID  string
	message interface{}
}

type stubNotifier struct {
	broadcasts []broadcastRecord
}

func (n *stubNotifier) BroadcastToRoom(roomID string, message interface{}) {
	n.broadcasts = append(n.broadcasts, broadcastRecord{roomID: roomID, message: message})
}

type stubUserRepo struct {
	nextID    int
	byEmail   map[string]*models.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()

	stored := *user
	r.byEmail[stored.Email] = &stored
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, stored := range r.byEmail {
		if stored.ID == id {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	stored, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *stubUserRepo) ExistsByIDs(_ context.Context, ids []int) (map[int]bool, error) {
	existing := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, err := r.GetByID(context.Background(), id); err == nil {
			existing[id] = true
		}
	}
	return existing, nil
}

type failingVerifier struct {
	err error
}

func (v *failingVerifier) VerifyCasualResult(_ context.Context, _ int, _ CasualResult) (int, error) {
	return 0, fmt.Errorf("verification rejected: %w", v.err)
}
