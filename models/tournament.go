package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament представляет турнир с фиксированным ростером.
// Roster хранит ID игроков в порядке посева (хост всегда первый);
// этот порядок определяет пары первого раунда и никогда не меняется.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	HostID    int              `json:"host_id" db:"host_id"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Roster []int `json:"roster" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Players []User  `json:"players,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
