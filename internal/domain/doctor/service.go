package doctor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/medirecord/medirecord/internal/domain/identity"
)

// maxIDAttempts bounds the unique-suffix retry loop. With a six digit
// suffix space this only trips when the registry is pathologically full.
const maxIDAttempts = 50

var ErrIDSpaceExhausted = errors.New("could not allocate a unique doctor id")

// IdentityDirectory is the slice of the identity service that registration
// needs.
type IdentityDirectory interface {
	FindOrCreate(ctx context.Context, identityID string) (*identity.Identity, error)
}

type Service struct {
	repo Repository
	ids  IdentityDirectory
}

func NewService(repo Repository, ids IdentityDirectory) *Service {
	return &Service{repo: repo, ids: ids}
}

// Register creates a doctor profile for the given identity. Profile fields
// come from the identity registry; the caller supplies only the
// professional details.
func (s *Service) Register(ctx context.Context, identityID, specialization, hospital string) (*Doctor, error) {
	if specialization == "" {
		return nil, errors.New("specialization is required")
	}
	id, err := s.ids.FindOrCreate(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByIdentity(ctx, identityID); err == nil {
		return nil, ErrIdentityTaken
	}

	doctorID, err := s.generateDoctorID(ctx)
	if err != nil {
		return nil, err
	}
	d := &Doctor{
		IdentityID:          id.IdentityID,
		DoctorID:            doctorID,
		Name:                "Dr. " + id.Name,
		Email:               id.Email,
		Specialization:      specialization,
		HospitalAffiliation: hospital,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, fmt.Errorf("store doctor: %w", err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, doctorID string) (*Doctor, error) {
	return s.repo.GetByID(ctx, doctorID)
}

func (s *Service) GetByIdentity(ctx context.Context, identityID string) (*Doctor, error) {
	return s.repo.GetByIdentity(ctx, identityID)
}

// Exists reports whether doctorID refers to a registered doctor.
func (s *Service) Exists(ctx context.Context, doctorID string) (bool, error) {
	_, err := s.repo.GetByID(ctx, doctorID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListAll(ctx context.Context) ([]*Doctor, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// generateDoctorID produces "DOC" plus a random six digit suffix, retrying
// until the ID is unused.
func (s *Service) generateDoctorID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		candidate := fmt.Sprintf("DOC%06d", 100000+rand.Intn(900000))
		_, err := s.repo.GetByID(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrIDSpaceExhausted
}
