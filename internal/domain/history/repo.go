package history

import "context"

type Repository interface {
	// Append stores the entry and folds its documents into the patient's
	// file index in the same mutation.
	Append(ctx context.Context, e *Entry) error
	// ListByPatient returns the patient's entries sorted descending by
	// date; entries sharing a date keep their insertion order.
	ListByPatient(ctx context.Context, patientID string) ([]*Entry, error)
	ListFiles(ctx context.Context, patientID string) ([]File, error)
	Count(ctx context.Context) (int, error)
}
