package patient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/medirecord/medirecord/internal/domain/identity"
)

const maxIDAttempts = 50

var (
	ErrIDSpaceExhausted = errors.New("could not allocate a unique patient id")
	ErrUnknownDoctor    = errors.New("doctor is not registered")
)

// IdentityDirectory is the slice of the identity service registration needs.
type IdentityDirectory interface {
	FindOrCreate(ctx context.Context, identityID string) (*identity.Identity, error)
}

// DoctorDirectory answers existence checks so that the authorized set only
// ever contains registered doctors.
type DoctorDirectory interface {
	Exists(ctx context.Context, doctorID string) (bool, error)
}

type Service struct {
	repo    Repository
	ids     IdentityDirectory
	doctors DoctorDirectory
}

func NewService(repo Repository, ids IdentityDirectory, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, ids: ids, doctors: doctors}
}

// Register creates a patient profile for the given identity, pulling the
// personal fields from the identity registry.
func (s *Service) Register(ctx context.Context, identityID string) (*Patient, error) {
	id, err := s.ids.FindOrCreate(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByIdentity(ctx, identityID); err == nil {
		return nil, ErrIdentityTaken
	}

	patientID, err := s.generatePatientID(ctx)
	if err != nil {
		return nil, err
	}
	p := &Patient{
		IdentityID:          id.IdentityID,
		PatientID:           patientID,
		Name:                id.Name,
		Email:               id.Email,
		Phone:               id.Phone,
		Address:             id.Address,
		AuthorizedDoctorIDs: []string{},
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("store patient: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	return s.repo.GetByID(ctx, patientID)
}

func (s *Service) GetByIdentity(ctx context.Context, identityID string) (*Patient, error) {
	return s.repo.GetByIdentity(ctx, identityID)
}

// AuthorizeDoctor adds doctorID to the patient's authorized set. The insert
// is idempotent; retried approvals never create duplicates.
func (s *Service) AuthorizeDoctor(ctx context.Context, patientID, doctorID string) error {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownDoctor
	}
	return s.repo.AddAuthorizedDoctor(ctx, patientID, doctorID)
}

// RevokeDoctor removes doctorID from the patient's authorized set. The
// doctor profile, identity record, and any history entries the doctor
// authored are untouched.
func (s *Service) RevokeDoctor(ctx context.Context, patientID, doctorID string) error {
	return s.repo.RemoveAuthorizedDoctor(ctx, patientID, doctorID)
}

// IsAuthorized reports whether doctorID is currently in the patient's
// authorized set.
func (s *Service) IsAuthorized(ctx context.Context, patientID, doctorID string) (bool, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return false, err
	}
	return p.Authorized(doctorID), nil
}

// Exists reports whether a patient with the given ID is registered.
func (s *Service) Exists(ctx context.Context, patientID string) (bool, error) {
	_, err := s.repo.GetByID(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAuthorizing returns every patient whose authorized set contains
// doctorID.
func (s *Service) ListAuthorizing(ctx context.Context, doctorID string) ([]*Patient, error) {
	return s.repo.ListByAuthorizedDoctor(ctx, doctorID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListAll(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) generatePatientID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		candidate := fmt.Sprintf("PAT%06d", 100000+rand.Intn(900000))
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
