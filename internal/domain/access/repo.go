package access

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("access request not found")

type Repository interface {
	GetByID(ctx context.Context, requestID string) (*Request, error)
	Insert(ctx context.Context, r *Request) error
	Update(ctx context.Context, r *Request) error
	// FindPending returns the pending request for the (doctor, patient)
	// pair, or ErrNotFound.
	FindPending(ctx context.Context, doctorID, patientID string) (*Request, error)
	// ListPendingByPatient returns pending requests in insertion order.
	ListPendingByPatient(ctx context.Context, patientID string) ([]*Request, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Request, error)
	Count(ctx context.Context) (int, error)
}
