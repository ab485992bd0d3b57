package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/repositories"
	"github.com/edhollow/pong-arena/services"
	"github.com/stretchr/testify/require"
)

type stubTournamentService struct {
	createFn func(ctx context.Context, hostID int, guestIDs []int) (*models.Tournament, error)
	getFn    func(ctx context.Context, id int) (*models.Tournament, error)
	nextFn   func(ctx context.Context, tournamentID int) (*services.NextMatchResult, error)
}

func (s *stubTournamentService) CreateTournament(ctx context.Context, hostID int, guestIDs []int) (*models.Tournament, error) {
	return s.createFn(ctx, hostID, guestIDs)
}

func (s *stubTournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	return s.getFn(ctx, id)
}

func (s *stubTournamentService) NextMatch(ctx context.Context, tournamentID int) (*services.NextMatchResult, error) {
	return s.nextFn(ctx, tournamentID)
}

type stubMatchService struct {
	recordFn  func(ctx context.Context, matchID, winnerID int) (*services.MatchResult, error)
	casualFn  func(ctx context.Context, reporterID int, result services.CasualResult) (*services.MatchResult, error)
	historyFn func(ctx context.Context, userID int) ([]services.HistoryEntry, error)
}

func (s *stubMatchService) RecordResult(ctx context.Context, matchID, winnerID int) (*services.MatchResult, error) {
	return s.recordFn(ctx, matchID, winnerID)
}

func (s *stubMatchService) RecordCasualMatch(ctx context.Context, reporterID int, result services.CasualResult) (*services.MatchResult, error) {
	return s.casualFn(ctx, reporterID, result)
}

func (s *stubMatchService) GetMatchHistory(ctx context.Context, userID int) ([]services.HistoryEntry, error) {
	return s.historyFn(ctx, userID)
}

type stubStatsService struct {
	getFn func(ctx context.Context, userID int) (*models.PlayerStats, error)
}

func (s *stubStatsService) ApplySettlement(_ context.Context, _ repositories.SQLExecutor, _, _, _ int) error {
	return nil
}

func (s *stubStatsService) GetStats(ctx context.Context, userID int) (*models.PlayerStats, error) {
	return s.getFn(ctx, userID)
}

type stubAuthService struct {
	registerFn func(ctx context.Context, input services.RegisterInput) (*models.User, error)
	loginFn    func(ctx context.Context, input services.LoginInput) (*models.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	return s.loginFn(ctx, input)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// errorEnvelope достаёт kind и message из конверта {"error": {...}}.
func errorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	body := decodeBody(t, rec)
	env, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response has no error envelope: %s", rec.Body.String())
	kind, _ := env["kind"].(string)
	message, _ := env["message"].(string)
	return kind, message
}
