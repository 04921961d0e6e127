package patient

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("patient not found")
	// ErrIdentityTaken is returned when an identity already has a patient
	// profile. One patient per identity.
	ErrIdentityTaken = errors.New("identity already registered as a patient")
)

type Repository interface {
	GetByID(ctx context.Context, patientID string) (*Patient, error)
	GetByIdentity(ctx context.Context, identityID string) (*Patient, error)
	Insert(ctx context.Context, p *Patient) error
	// AddAuthorizedDoctor inserts doctorID into the patient's authorized set
	// with set-union semantics: a doctor already present is not duplicated.
	AddAuthorizedDoctor(ctx context.Context, patientID, doctorID string) error
	RemoveAuthorizedDoctor(ctx context.Context, patientID, doctorID string) error
	ListByAuthorizedDoctor(ctx context.Context, doctorID string) ([]*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListAll(ctx context.Context) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
}
