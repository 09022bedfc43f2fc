package auth

import (
	"context"

	"spacebook/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID, name, role string) (string, error)
}
