package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

type Service struct {
	store *Store
	repo  SpaceRepository
	feed  Publisher
}

func NewService(store *Store, repo SpaceRepository, feed Publisher) *Service {
	return &Service{store: store, repo: repo, feed: feed}
}

func (s *Service) Store() *Store { return s.store }

// LoadAll replaces the mirror with the full remote collection. On failure
// the mirror keeps its last-known-good contents and the error is surfaced
// wrapped in ErrFetch so callers can offer a retry.
func (s *Service) LoadAll(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	s.store.ReplaceAll(rows)
	return nil
}

func (s *Service) Loaded() bool { return s.store.Loaded() }

// Query reads the mirror. Pure and synchronous; it never touches the
// repository.
func (s *Service) Query(search string, f Filters) []domain.Space {
	return s.store.Query(search, f)
}

func (s *Service) GetSpace(id string) (domain.Space, error) {
	sp, ok := s.store.Get(id)
	if !ok {
		return domain.Space{}, ErrNotFound
	}
	return sp, nil
}

func (s *Service) CreateSpace(ctx context.Context, user *domain.User, req CreateSpaceRequest) (*domain.Space, error) {
	if user.Role != domain.RoleSpaceOwner && user.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	category, ok := domain.ParseSpaceCategory(req.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	now := time.Now().UTC()
	sp := &domain.Space{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		HourlyRate:  req.HourlyRate,
		Capacity:    req.Capacity,
		Category:    category,
		Amenities:   emptyIfNil(req.Amenities),
		Images:      emptyIfNil(req.Images),
		OwnerID:     user.ID,
		OwnerName:   user.Name,
		Rating:      0,
		Reviews:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}

	// The feed echoes this event back; ApplyInsert is idempotent by id so
	// applying locally first cannot duplicate the record.
	s.store.ApplyInsert(*sp)
	s.publish(ctx, EventInsert, *sp)

	return sp, nil
}

func (s *Service) UpdateSpace(ctx context.Context, user *domain.User, id string, req UpdateSpaceRequest) (*domain.Space, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sp.OwnerID != user.ID && user.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		sp.Title = *req.Title
	}
	if req.Description != nil {
		sp.Description = *req.Description
	}
	if req.Location != nil {
		sp.Location = *req.Location
	}
	if req.HourlyRate != nil && *req.HourlyRate >= 0 {
		sp.HourlyRate = *req.HourlyRate
	}
	if req.Capacity != nil && *req.Capacity >= 1 {
		sp.Capacity = *req.Capacity
	}
	if req.Category != nil {
		category, ok := domain.ParseSpaceCategory(*req.Category)
		if !ok {
			return nil, ErrInvalidCategory
		}
		sp.Category = category
	}
	if req.Amenities != nil {
		sp.Amenities = *req.Amenities
	}
	if req.Images != nil {
		sp.Images = *req.Images
	}
	sp.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}

	s.store.ApplyInsert(*sp)
	s.publish(ctx, EventUpdate, *sp)

	return sp, nil
}

func (s *Service) DeleteSpace(ctx context.Context, user *domain.User, id string) error {
	sp, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if sp.OwnerID != user.ID && user.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.store.ApplyDelete(id)
	s.publish(ctx, EventDelete, *sp)

	return nil
}

// publish pushes the event onto the feed. Feed trouble never fails the
// operation: the local mirror is already consistent and remote mirrors
// converge on their next bulk load.
func (s *Service) publish(ctx context.Context, t EventType, sp domain.Space) {
	if s.feed == nil {
		return
	}
	ev := ChangeEvent{Type: t, Table: spacesTable, Record: encodeSpaceRecord(sp)}
	if err := s.feed.Publish(ctx, ev); err != nil {
		log.Printf("catalog: publish %s for space id=%s failed: %v", t, sp.ID, err)
	}
}

func emptyIfNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
