package models

// PlayerStats — агрегированные счётчики игрока. Строка создаётся лениво
// при первом обращении и изменяется только в транзакции расчёта матча,
// поэтому wins <= games_played поддерживается инвариантно.
type PlayerStats struct {
	UserID      int `json:"user_id"`
	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
}
