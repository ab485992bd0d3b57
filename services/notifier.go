package services

import "strconv"

// События, рассылаемые в комнату турнира.
const (
	EventMatchCreated        = "MATCH_CREATED"
	EventMatchSettled        = "MATCH_SETTLED"
	EventTournamentCompleted = "TOURNAMENT_COMPLETED"
)

// Notifier — узкий интерфейс рассылки событий подписчикам комнаты.
// Реализуется brackets.Hub; в тестах подменяется заглушкой.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

func tournamentRoom(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}
