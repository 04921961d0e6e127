package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidID is returned for identity numbers that are not exactly 12
// numeric characters. Nothing is mutated in that case.
var ErrInvalidID = errors.New("identity id must be exactly 12 digits")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FindOrCreate resolves a syntactically valid identity number to a registry
// record, synthesizing and storing a plausible one on first sight. It never
// reports absence for a valid ID, and calling it twice with the same new ID
// returns the same stored record both times.
func (s *Service) FindOrCreate(ctx context.Context, identityID string) (*Identity, error) {
	if !ValidID(identityID) {
		return nil, ErrInvalidID
	}
	id, err := s.repo.GetByID(ctx, identityID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	created := synthesize(identityID)
	if err := s.repo.Insert(ctx, created); err != nil {
		return nil, fmt.Errorf("store identity: %w", err)
	}
	// Re-read so concurrent first-sight callers all observe one record.
	return s.repo.GetByID(ctx, identityID)
}

// Get looks up an identity without creating one.
func (s *Service) Get(ctx context.Context, identityID string) (*Identity, error) {
	if !ValidID(identityID) {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, identityID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Identity, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
