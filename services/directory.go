package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/edhollow/pong-arena/repositories"
)

// PlayerDirectory — единственное окно ядра во внешний каталог игроков.
// Ядро сверяется с ним при валидации и обогащении ответов именами, но
// никогда не пишет в него и не читает строки пользователей напрямую.
type PlayerDirectory interface {
	ResolveAll(ctx context.Context, ids []int) (map[int]bool, error)
	DisplayName(ctx context.Context, id int) (string, error)
}

type userDirectory struct {
	userRepo repositories.UserRepository
}

func NewUserDirectory(userRepo repositories.UserRepository) PlayerDirectory {
	return &userDirectory{userRepo: userRepo}
}

func (d *userDirectory) ResolveAll(ctx context.Context, ids []int) (map[int]bool, error) {
	existing, err := d.userRepo.ExistsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve players: %w", err)
	}
	return existing, nil
}

func (d *userDirectory) DisplayName(ctx context.Context, id int) (string, error) {
	user, err := d.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrPlayerNotFound
		}
		return "", fmt.Errorf("failed to resolve display name for player %d: %w", id, err)
	}
	return user.Nickname, nil
}
