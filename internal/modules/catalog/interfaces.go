package catalog

import (
	"context"

	"spacebook/internal/domain"
)

// SpaceRepository is the remote source of truth for spaces. The store only
// mirrors it; every durable mutation goes through here.
type SpaceRepository interface {
	GetAll(ctx context.Context) ([]domain.Space, error)
	GetByID(ctx context.Context, id string) (*domain.Space, error)
	Create(ctx context.Context, sp *domain.Space) error
	Update(ctx context.Context, sp *domain.Space) error
	Delete(ctx context.Context, id string) error
}
