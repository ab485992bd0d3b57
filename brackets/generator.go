package brackets

import (
	"errors"
	"fmt"

	"github.com/edhollow/pong-arena/models"
)

var (
	ErrRosterSizeInvalid = errors.New("roster size must be a power of two (minimum 2)")
	ErrRosterNotUnique   = errors.New("roster players must be unique")
	ErrPendingResult     = errors.New("previous matches must have a winner")
	ErrTooManyMatches    = errors.New("more matches than the bracket allows")
)

// Pairing описывает следующий играбельный слот сетки.
type Pairing struct {
	Round     int
	Slot      int
	Player1ID int
	Player2ID int
}

// ValidateRoster проверяет, что ростер годится для single elimination:
// размер — степень двойки, все игроки различны.
func ValidateRoster(roster []int) error {
	n := len(roster)
	if n < 2 || n&(n-1) != 0 {
		return ErrRosterSizeInvalid
	}
	seen := make(map[int]bool, n)
	for _, id := range roster {
		if seen[id] {
			return ErrRosterNotUnique
		}
		seen[id] = true
	}
	return nil
}

// Rounds возвращает число раундов для ростера из n игроков (log2 n).
func Rounds(n int) int {
	rounds := 0
	for size := n; size > 1; size >>= 1 {
		rounds++
	}
	return rounds
}

// RoundOf возвращает 1-based номер раунда для слота сетки на n игроков.
// Раунд r содержит n/2^r слотов, слоты нумеруются сквозь раунды по
// порядку создания: для n=4 слоты 0,1 — полуфиналы, слот 2 — финал.
func RoundOf(slot, n int) int {
	round := 1
	for size := n / 2; slot >= size; size /= 2 {
		slot -= size
		round++
	}
	return round
}

// feederSlots возвращает слоты двух матчей, победители которых играют в slot.
// Для любого слота за пределами первого раунда это пара последовательных
// более ранних слотов: 2*(slot-n/2) и 2*(slot-n/2)+1.
func feederSlots(slot, n int) (int, int) {
	first := 2 * (slot - n/2)
	return first, first + 1
}

// NextPairing — чистая функция планировщика сетки. Фаза турнира нигде не
// хранится: она выводится из количества уже созданных матчей (played в
// порядке слотов). Возвращает (nil, nil), когда все n-1 матчей созданы и
// сетка исчерпана; ErrPendingResult — когда у матчей-источников ещё нет
// победителя.
//
// Правило пар фиксировано: первый раунд сводит игроков ростера попарно в
// порядке посева (без пересева), последующие раунды сводят победителей
// последовательных слотов. Для n=4 это даёт ровно
// (roster0,roster1), (roster2,roster3), (winner0,winner1).
func NextPairing(roster []int, played []*models.Match) (*Pairing, error) {
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	n := len(roster)
	k := len(played)

	switch {
	case k > n-1:
		return nil, fmt.Errorf("%w: got %d for roster of %d", ErrTooManyMatches, k, n)
	case k == n-1:
		return nil, nil // Сетка сыграна полностью
	case k < n/2:
		// Первый раунд: пары по порядку посева.
		return &Pairing{
			Round:     1,
			Slot:      k,
			Player1ID: roster[2*k],
			Player2ID: roster[2*k+1],
		}, nil
	}

	f1, f2 := feederSlots(k, n)
	if !played[f1].HasWinner() || !played[f2].HasWinner() {
		return nil, ErrPendingResult
	}

	return &Pairing{
		Round:     RoundOf(k, n),
		Slot:      k,
		Player1ID: *played[f1].WinnerID,
		Player2ID: *played[f2].WinnerID,
	}, nil
}
