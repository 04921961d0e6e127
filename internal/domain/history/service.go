package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotAuthorized  = errors.New("doctor is not authorized for this patient")
	ErrUnknownPatient = errors.New("patient is not registered")
	ErrInvalidDate    = errors.New("date must be an ISO calendar date")
)

// PatientDirectory is the slice of the patient service the history workflow
// needs: existence and grant checks.
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
	IsAuthorized(ctx context.Context, patientID, doctorID string) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// AddDoctorEntry appends a consultation note authored by an authorized
// doctor.
func (s *Service) AddDoctorEntry(ctx context.Context, patientID, doctorID, doctorName, date, notes string, docs []Document) (*Entry, error) {
	ok, err := s.patients.IsAuthorized(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthorized
	}
	return s.append(ctx, &Entry{
		PatientID:  patientID,
		DoctorID:   doctorID,
		DoctorName: doctorName,
		Date:       date,
		Notes:      notes,
		Documents:  docs,
	})
}

// AddSelfEntry appends a patient's own upload. No doctor is attached.
func (s *Service) AddSelfEntry(ctx context.Context, patientID, date, notes string, docs []Document) (*Entry, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownPatient
	}
	return s.append(ctx, &Entry{
		PatientID: patientID,
		Date:      date,
		Notes:     notes,
		Documents: docs,
	})
}

func (s *Service) append(ctx context.Context, e *Entry) (*Entry, error) {
	if e.Date == "" {
		e.Date = time.Now().Format(dateLayout)
	}
	if !ValidDate(e.Date) {
		return nil, ErrInvalidDate
	}
	e.EntryID = uuid.NewString()
	if e.Documents == nil {
		e.Documents = []Document{}
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("store history entry: %w", err)
	}
	return e, nil
}

// ListByPatient returns the patient's history, newest date first.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Entry, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListFiles(ctx context.Context, patientID string) ([]File, error) {
	return s.repo.ListFiles(ctx, patientID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
