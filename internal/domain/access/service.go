package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medirecord/medirecord/internal/domain/patient"
)

var (
	// ErrAlreadyAuthorized means the doctor is already in the patient's
	// authorized set; there is nothing to request.
	ErrAlreadyAuthorized = errors.New("doctor already has access to this patient")
	// ErrDuplicatePending means a request for the pair is still awaiting a
	// decision.
	ErrDuplicatePending = errors.New("a pending request already exists for this patient")
	// ErrRequestClosed means the request was already decided; terminal
	// states are never reopened.
	ErrRequestClosed = errors.New("request has already been decided")
	ErrUnknownDoctor = errors.New("doctor is not registered")
)

// PatientAuthorizer is the slice of the patient service the workflow
// drives: grant lookup on create, grant insert on approval.
type PatientAuthorizer interface {
	Get(ctx context.Context, patientID string) (*patient.Patient, error)
	AuthorizeDoctor(ctx context.Context, patientID, doctorID string) error
}

// DoctorDirectory answers doctor existence checks.
type DoctorDirectory interface {
	Exists(ctx context.Context, doctorID string) (bool, error)
}

// Service owns the request state machine: pending → approved or
// pending → rejected, nothing else.
type Service struct {
	repo     Repository
	patients PatientAuthorizer
	doctors  DoctorDirectory
}

func NewService(repo Repository, patients PatientAuthorizer, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors}
}

// CreateRequest opens a pending request from doctorID to patientID. Both
// entry conditions live here, not in the callers: the doctor must not
// already hold access, and no second pending request may exist for the
// pair.
func (s *Service) CreateRequest(ctx context.Context, doctorID, patientID string) (*Request, error) {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownDoctor
	}
	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p.Authorized(doctorID) {
		return nil, ErrAlreadyAuthorized
	}
	if _, err := s.repo.FindPending(ctx, doctorID, patientID); err == nil {
		return nil, ErrDuplicatePending
	}

	req := &Request{
		RequestID:   uuid.NewString(),
		DoctorID:    doctorID,
		PatientID:   patientID,
		Status:      StatusPending,
		RequestDate: time.Now(),
	}
	if err := s.repo.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("store access request: %w", err)
	}
	return req, nil
}

// Approve moves a pending request to approved and inserts the doctor into
// the patient's authorized set exactly once.
func (s *Service) Approve(ctx context.Context, requestID string) (*Request, error) {
	return s.respond(ctx, requestID, StatusApproved)
}

// Reject moves a pending request to rejected. The authorized set is not
// touched; the record is kept with its response date.
func (s *Service) Reject(ctx context.Context, requestID string) (*Request, error) {
	return s.respond(ctx, requestID, StatusRejected)
}

func (s *Service) respond(ctx context.Context, requestID string, to Status) (*Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, ErrRequestClosed
	}

	if to == StatusApproved {
		// Idempotent set insert; a retried approval cannot duplicate the
		// grant.
		if err := s.patients.AuthorizeDoctor(ctx, req.PatientID, req.DoctorID); err != nil {
			return nil, fmt.Errorf("grant access: %w", err)
		}
	}

	now := time.Now()
	req.Status = to
	req.ResponseDate = &now
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("store decision: %w", err)
	}
	return req, nil
}

// GetRequest looks up a request by ID.
func (s *Service) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	return s.repo.GetByID(ctx, requestID)
}

// ListPending returns the patient's undecided requests in insertion order.
func (s *Service) ListPending(ctx context.Context, patientID string) ([]*Request, error) {
	return s.repo.ListPendingByPatient(ctx, patientID)
}

// ListByDoctor returns every request the doctor has made, decided or not.
func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]*Request, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
