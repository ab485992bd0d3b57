package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edhollow/pong-arena/brackets"
	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/repositories"
)

// PlayerInfo — отображаемые данные игрока в паре матча. Имя берётся из
// каталога игроков на момент ответа и нигде не сохраняется.
type PlayerInfo struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
}

// MatchDescriptor описывает созданный матч сетки для вызывающего.
type MatchDescriptor struct {
	MatchID int        `json:"match_id"`
	Round   int        `json:"round"`
	Player1 PlayerInfo `json:"player1"`
	Player2 PlayerInfo `json:"player2"`
}

// NextMatchResult — либо дескриптор следующего матча, либо маркер
// завершения турнира.
type NextMatchResult struct {
	Completed bool             `json:"completed"`
	Match     *MatchDescriptor `json:"match,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, hostID int, guestIDs []int) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	NextMatch(ctx context.Context, tournamentID int) (*NextMatchResult, error)
}

type tournamentService struct {
	store          Store
	rosterSize     int
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	directory      PlayerDirectory
	notifier       Notifier
	logger         *slog.Logger
}

func NewTournamentService(
	store Store,
	rosterSize int,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	directory PlayerDirectory,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		store:          store,
		rosterSize:     rosterSize,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		directory:      directory,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreateTournament регистрирует турнир с ростером {host} ∪ guests.
// Ростер фиксируется в порядке посева (хост первый) и больше не меняется;
// матчи на этом этапе не создаются.
func (s *tournamentService) CreateTournament(ctx context.Context, hostID int, guestIDs []int) (*models.Tournament, error) {
	roster := append([]int{hostID}, guestIDs...)

	if len(roster) != s.rosterSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrRosterSize, s.rosterSize, len(roster))
	}
	if err := brackets.ValidateRoster(roster); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterSize, err)
	}

	existing, err := s.directory.ResolveAll(ctx, roster)
	if err != nil {
		return nil, err
	}
	for _, id := range roster {
		if !existing[id] {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotFound, id)
		}
	}

	tournament := &models.Tournament{
		HostID: hostID,
		Status: models.StatusOngoing,
		Roster: roster,
	}

	err = s.store.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournamentRepo.Create(ctx, exec, tournament)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("host_id", hostID),
		slog.Int("roster_size", len(roster)),
	)
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	tournament.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		tournament.Matches = append(tournament.Matches, *m)
	}
	return tournament, nil
}

// NextMatch выдаёт следующий играбельный матч сетки либо маркер
// завершения. Фаза выводится из уже созданных матчей турнира; блокировка
// строки турнира сериализует конкурентные вызовы, а уникальный индекс на
// (tournament_id, slot) страхует от двойного создания слота.
func (s *tournamentService) NextMatch(ctx context.Context, tournamentID int) (*NextMatchResult, error) {
	var (
		created      *models.Match
		round        int
		completedNow bool
	)

	err := s.store.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
		}

		if tournament.Status == models.StatusCompleted {
			return ErrTournamentCompleted
		}

		played, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		pairing, err := brackets.NextPairing(tournament.Roster, played)
		if err != nil {
			if errors.Is(err, brackets.ErrPendingResult) {
				return ErrPreviousMatchesUnsettled
			}
			return fmt.Errorf("failed to derive next pairing for tournament %d: %w", tournamentID, err)
		}

		if pairing == nil {
			// Сетка исчерпана: фиксируем завершение, ничего не создаём.
			if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.StatusCompleted); err != nil {
				return fmt.Errorf("failed to complete tournament %d: %w", tournamentID, err)
			}
			completedNow = true
			return nil
		}

		match := &models.Match{
			TournamentID: &tournamentID,
			Slot:         &pairing.Slot,
			Player1ID:    pairing.Player1ID,
			Player2ID:    pairing.Player2ID,
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			if errors.Is(err, repositories.ErrMatchSlotTaken) {
				return ErrBracketSlotConflict
			}
			return fmt.Errorf("failed to create match for tournament %d: %w", tournamentID, err)
		}

		created = match
		round = pairing.Round
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		s.logger.Info("tournament completed", slog.Int("tournament_id", tournamentID))
		s.notifier.BroadcastToRoom(tournamentRoom(tournamentID), brackets.WebSocketMessage{
			Type:    EventTournamentCompleted,
			Payload: map[string]int{"tournament_id": tournamentID},
			RoomID:  tournamentRoom(tournamentID),
		})
		return &NextMatchResult{Completed: true}, nil
	}

	descriptor, err := s.describeMatch(ctx, created, round)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket match created",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", created.ID),
		slog.Int("round", round),
	)
	s.notifier.BroadcastToRoom(tournamentRoom(tournamentID), brackets.WebSocketMessage{
		Type:    EventMatchCreated,
		Payload: descriptor,
		RoomID:  tournamentRoom(tournamentID),
	})

	return &NextMatchResult{Match: descriptor}, nil
}

func (s *tournamentService) describeMatch(ctx context.Context, match *models.Match, round int) (*MatchDescriptor, error) {
	name1, err := s.directory.DisplayName(ctx, match.Player1ID)
	if err != nil {
		return nil, err
	}
	name2, err := s.directory.DisplayName(ctx, match.Player2ID)
	if err != nil {
		return nil, err
	}

	return &MatchDescriptor{
		MatchID: match.ID,
		Round:   round,
		Player1: PlayerInfo{ID: match.Player1ID, Nickname: name1},
		Player2: PlayerInfo{ID: match.Player2ID, Nickname: name2},
	}, nil
}
