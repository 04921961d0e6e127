package admin

import (
	"context"
	"errors"
	"time"

	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/domain/patient"
)

var ErrUnknownKind = errors.New("export kind must be patients or doctors")

// PatientSource and DoctorSource are the registry slices the admin views
// read. Wired to the patient and doctor services in main.
type PatientSource interface {
	ListAll(ctx context.Context) ([]*patient.Patient, error)
	Count(ctx context.Context) (int, error)
}

type DoctorSource interface {
	ListAll(ctx context.Context) ([]*doctor.Doctor, error)
	Count(ctx context.Context) (int, error)
}

// Counter is any registry that can report its size, for the stats view.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	patients PatientSource
	doctors  DoctorSource
	counters map[string]Counter
	clockNow func() time.Time
}

func NewService(patients PatientSource, doctors DoctorSource) *Service {
	return &Service{
		patients: patients,
		doctors:  doctors,
		counters: make(map[string]Counter),
		clockNow: time.Now,
	}
}

// RegisterCounter adds a named registry to the stats view.
func (s *Service) RegisterCounter(name string, c Counter) {
	s.counters[name] = c
}

// ExportRegistry renders the requested registry as delimited text. Calling
// it twice without mutating the registry yields identical content; only the
// filename's embedded date can differ.
func (s *Service) ExportRegistry(ctx context.Context, kind string) (Export, error) {
	switch kind {
	case KindPatients:
		patients, err := s.patients.ListAll(ctx)
		if err != nil {
			return Export{}, err
		}
		return renderPatients(patients, s.clockNow()), nil
	case KindDoctors:
		doctors, err := s.doctors.ListAll(ctx)
		if err != nil {
			return Export{}, err
		}
		return renderDoctors(doctors, s.clockNow()), nil
	default:
		return Export{}, ErrUnknownKind
	}
}

// Stats returns the size of every registered registry.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(s.counters)+2)
	n, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	out["patients"] = n
	n, err = s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	out["doctors"] = n
	for name, c := range s.counters {
		n, err := c.Count(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}
