package models

import "time"

// Match — запись в журнале матчей. TournamentID и Slot равны nil для
// казуальных матчей вне сетки. WinnerID становится не-nil ровно один раз
// (см. MatchRepository.SettleWinner) и после этого не меняется.
type Match struct {
	ID           int       `json:"id"`
	TournamentID *int      `json:"tournament_id,omitempty"`
	Slot         *int      `json:"slot,omitempty"`
	Player1ID    int       `json:"player1_id"`
	Player2ID    int       `json:"player2_id"`
	WinnerID     *int      `json:"winner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasWinner сообщает, рассчитан ли матч.
func (m *Match) HasWinner() bool {
	return m.WinnerID != nil
}

// HasParticipant проверяет, что userID — один из двух участников матча.
func (m *Match) HasParticipant(userID int) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}
