package services

import "errors"

// ErrorKind — машинно-читаемый класс ошибки для API-ответов.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrRosterSize               = errors.New("tournament roster must contain exactly the configured number of unique players")
	ErrPreviousMatchesUnsettled = errors.New("previous matches must have a winner")
	ErrWinnerNotParticipant     = errors.New("winner must be one of the players")
	ErrSamePlayer               = errors.New("players must be different")
	ErrCasualPlayerUnknown      = errors.New("one or both players not found")
	ErrPasswordTooShort         = errors.New("password is too short")

	// Ресурс не найден
	ErrPlayerNotFound     = errors.New("one or more players not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Ошибки конфликтов
	ErrTournamentCompleted = errors.New("tournament already completed")
	ErrMatchAlreadySettled = errors.New("match already has a winner")
	ErrBracketSlotConflict = errors.New("bracket slot was created concurrently")

	// Ошибки аутентификации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrAuthNicknameTaken      = errors.New("nickname is already taken")
)

// KindOf относит ошибку сервисного слоя к одному из трёх классов.
// Второе значение false означает непредвиденную (серверную) ошибку.
func KindOf(err error) (ErrorKind, bool) {
	switch {
	case errors.Is(err, ErrRosterSize),
		errors.Is(err, ErrPreviousMatchesUnsettled),
		errors.Is(err, ErrWinnerNotParticipant),
		errors.Is(err, ErrSamePlayer),
		errors.Is(err, ErrCasualPlayerUnknown),
		errors.Is(err, ErrPasswordTooShort):
		return KindValidation, true

	case errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrTournamentNotFound),
		errors.Is(err, ErrMatchNotFound):
		return KindNotFound, true

	case errors.Is(err, ErrTournamentCompleted),
		errors.Is(err, ErrMatchAlreadySettled),
		errors.Is(err, ErrBracketSlotConflict),
		errors.Is(err, ErrAuthEmailTaken),
		errors.Is(err, ErrAuthNicknameTaken):
		return KindConflict, true
	}
	return "", false
}
