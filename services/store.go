package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edhollow/pong-arena/repositories"
)

// Store — доступ сервисов к разделяемому хранилищу: прямые чтения плюс
// RunInTx для операций, которые обязаны фиксироваться целиком (расчёт
// матча вместе со статистикой, создание слота сетки под блокировкой
// строки турнира). Другого разделяемого изменяемого состояния у ядра нет.
type Store interface {
	repositories.SQLExecutor
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlStore struct {
	*sql.DB
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{DB: db}
}

func (s *sqlStore) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
