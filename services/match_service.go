package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edhollow/pong-arena/brackets"
	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/repositories"
	"golang.org/x/sync/errgroup"
)

// MatchResult — подтверждение записи исхода.
type MatchResult struct {
	MatchID  int `json:"match_id"`
	WinnerID int `json:"winner_id"`
}

// HistoryEntry — строка истории матчей игрока, имена разрешены через каталог.
type HistoryEntry struct {
	MatchID     int       `json:"match_id"`
	Player1Name string    `json:"player1_name"`
	Player2Name string    `json:"player2_name"`
	WinnerName  *string   `json:"winner_name"`
	Date        time.Time `json:"date"`
}

// MatchService — журнал матчей (Ledger) и рекордер казуальных матчей.
// Это единственная точка записи winner_id: расчёт выполняется не более
// одного раза и атомарно вместе с обновлением статистики.
type MatchService interface {
	RecordResult(ctx context.Context, matchID, winnerID int) (*MatchResult, error)
	RecordCasualMatch(ctx context.Context, reporterID int, result CasualResult) (*MatchResult, error)
	GetMatchHistory(ctx context.Context, userID int) ([]HistoryEntry, error)
}

type matchService struct {
	store        Store
	matchRepo    repositories.MatchRepository
	statsService StatsService
	directory    PlayerDirectory
	verifier     ResultVerifier
	notifier     Notifier
	logger       *slog.Logger
}

func NewMatchService(
	store Store,
	matchRepo repositories.MatchRepository,
	statsService StatsService,
	directory PlayerDirectory,
	verifier ResultVerifier,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		store:        store,
		matchRepo:    matchRepo,
		statsService: statsService,
		directory:    directory,
		verifier:     verifier,
		notifier:     notifier,
		logger:       logger,
	}
}

// RecordResult рассчитывает матч: winner_id переходит из NULL в значение
// одним compare-and-set, и в той же транзакции обоим участникам
// инкрементируется games_played, а победителю — wins. При конкурентных
// вызовах ровно один выигрывает гонку, проигравший получает
// ErrMatchAlreadySettled, и его транзакция ничего не меняет.
func (s *matchService) RecordResult(ctx context.Context, matchID, winnerID int) (*MatchResult, error) {
	var settled *models.Match

	err := s.store.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to load match %d: %w", matchID, err)
		}

		if match.HasWinner() {
			return ErrMatchAlreadySettled
		}
		if !match.HasParticipant(winnerID) {
			return ErrWinnerNotParticipant
		}

		if err := s.matchRepo.SettleWinner(ctx, exec, matchID, winnerID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				// Строка существует (мы её читали), значит CAS не прошёл
				// из-за конкурентного расчёта.
				return ErrMatchAlreadySettled
			}
			return fmt.Errorf("failed to settle match %d: %w", matchID, err)
		}

		if err := s.statsService.ApplySettlement(ctx, exec, match.Player1ID, match.Player2ID, winnerID); err != nil {
			return err
		}

		settled = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match settled",
		slog.Int("match_id", matchID),
		slog.Int("winner_id", winnerID),
	)
	if settled.TournamentID != nil {
		room := tournamentRoom(*settled.TournamentID)
		s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    EventMatchSettled,
			Payload: MatchResult{MatchID: matchID, WinnerID: winnerID},
			RoomID:  room,
		})
	}

	return &MatchResult{MatchID: matchID, WinnerID: winnerID}, nil
}

// RecordCasualMatch записывает одиночный матч вне сетки: создание и
// расчёт идут одной транзакцией, нерассчитанного окна снаружи не видно.
// Исход определяет стратегия верификации (сейчас — со слов участника).
func (s *matchService) RecordCasualMatch(ctx context.Context, reporterID int, result CasualResult) (*MatchResult, error) {
	if result.Player1ID == result.Player2ID {
		return nil, ErrSamePlayer
	}

	existing, err := s.directory.ResolveAll(ctx, []int{result.Player1ID, result.Player2ID})
	if err != nil {
		return nil, err
	}
	if !existing[result.Player1ID] || !existing[result.Player2ID] {
		return nil, ErrCasualPlayerUnknown
	}

	winnerID, err := s.verifier.VerifyCasualResult(ctx, reporterID, result)
	if err != nil {
		return nil, err
	}

	match := &models.Match{
		Player1ID: result.Player1ID,
		Player2ID: result.Player2ID,
	}

	err = s.store.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return fmt.Errorf("failed to create casual match: %w", err)
		}
		if err := s.matchRepo.SettleWinner(ctx, exec, match.ID, winnerID); err != nil {
			return fmt.Errorf("failed to settle casual match %d: %w", match.ID, err)
		}
		return s.statsService.ApplySettlement(ctx, exec, match.Player1ID, match.Player2ID, winnerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("casual match recorded",
		slog.Int("match_id", match.ID),
		slog.Int("winner_id", winnerID),
	)
	return &MatchResult{MatchID: match.ID, WinnerID: winnerID}, nil
}

// GetMatchHistory возвращает матчи игрока от новых к старым. Имена
// участников подтягиваются из каталога параллельно.
func (s *matchService) GetMatchHistory(ctx context.Context, userID int) ([]HistoryEntry, error) {
	matches, err := s.matchRepo.ListByPlayer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for user %d: %w", userID, err)
	}

	names, err := s.resolveNames(ctx, matches)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(matches))
	for _, m := range matches {
		entry := HistoryEntry{
			MatchID:     m.ID,
			Player1Name: names[m.Player1ID],
			Player2Name: names[m.Player2ID],
			Date:        m.CreatedAt,
		}
		if m.WinnerID != nil {
			winnerName := names[*m.WinnerID]
			entry.WinnerName = &winnerName
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *matchService) resolveNames(ctx context.Context, matches []*models.Match) (map[int]string, error) {
	ids := make(map[int]bool)
	for _, m := range matches {
		ids[m.Player1ID] = true
		ids[m.Player2ID] = true
	}

	names := make(map[int]string, len(ids))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for id := range ids {
		id := id
		g.Go(func() error {
			name, err := s.directory.DisplayName(gCtx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve player names: %w", err)
	}
	return names, nil
}
