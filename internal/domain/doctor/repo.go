package doctor

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("doctor not found")
	// ErrIdentityTaken is returned when an identity already has a doctor
	// profile. One doctor per identity.
	ErrIdentityTaken = errors.New("identity already registered as a doctor")
)

type Repository interface {
	GetByID(ctx context.Context, doctorID string) (*Doctor, error)
	GetByIdentity(ctx context.Context, identityID string) (*Doctor, error)
	Insert(ctx context.Context, d *Doctor) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	ListAll(ctx context.Context) ([]*Doctor, error)
	Count(ctx context.Context) (int, error)
}
