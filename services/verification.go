package services

import "context"

// CasualResult — заявленный исход казуального матча.
type CasualResult struct {
	Player1ID       int
	Player2ID       int
	WinnerIsPlayer1 bool
}

// ResultVerifier определяет, кому засчитать победу в казуальном матче.
// Граница доверия вынесена в отдельную стратегию: сейчас исход
// принимается со слов участника, но стратегию с подтверждением от
// второго игрока или с серверным наблюдением можно подставить, не трогая
// сам рекордер.
type ResultVerifier interface {
	VerifyCasualResult(ctx context.Context, reporterID int, result CasualResult) (winnerID int, err error)
}

type trustCallerVerifier struct{}

// TrustCallerVerifier верит флагу из запроса без встречного подтверждения.
func TrustCallerVerifier() ResultVerifier {
	return &trustCallerVerifier{}
}

func (v *trustCallerVerifier) VerifyCasualResult(_ context.Context, _ int, result CasualResult) (int, error) {
	if result.WinnerIsPlayer1 {
		return result.Player1ID, nil
	}
	return result.Player2ID, nil
}
