package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/domain/patient"
)

type mockPatientSource struct {
	items []*patient.Patient
}

func (m *mockPatientSource) ListAll(_ context.Context) ([]*patient.Patient, error) {
	return m.items, nil
}

func (m *mockPatientSource) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

type mockDoctorSource struct {
	items []*doctor.Doctor
}

func (m *mockDoctorSource) ListAll(_ context.Context) ([]*doctor.Doctor, error) {
	return m.items, nil
}

func (m *mockDoctorSource) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

type staticCounter int

func (c staticCounter) Count(_ context.Context) (int, error) { return int(c), nil }

func newTestService() *Service {
	svc := NewService(
		&mockPatientSource{items: []*patient.Patient{
			{
				PatientID:           "PAT103245",
				IdentityID:          "123456789012",
				Name:                "Rahul Sharma",
				Email:               "rahul.sharma@example.com",
				Phone:               "9876543210",
				Address:             "123 Main Street, Mumbai, Maharashtra",
				AuthorizedDoctorIDs: []string{"DOC987654", "DOC111111"},
			},
		}},
		&mockDoctorSource{items: []*doctor.Doctor{
			{
				DoctorID:            "DOC987654",
				IdentityID:          "345678901234",
				Name:                "Dr. Anjali Desai",
				Email:               "doctor@example.com",
				Specialization:      "Cardiologist",
				HospitalAffiliation: "City Medical Center",
			},
		}},
	)
	svc.clockNow = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestExport_Patients(t *testing.T) {
	svc := newTestService()

	export, err := svc.ExportRegistry(context.Background(), KindPatients)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.Filename != "patients_2024-03-10.csv" {
		t.Errorf("unexpected filename %q", export.Filename)
	}

	lines := strings.Split(strings.TrimRight(export.Content, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "PatientID,IdentityID,Name,Email,Phone,Address,AuthorizedDoctors" {
		t.Errorf("unexpected header %q", lines[0])
	}
	// Address contains commas, so it is quoted; the list field is quoted
	// and "; "-joined.
	if !strings.Contains(lines[1], `"123 Main Street, Mumbai, Maharashtra"`) {
		t.Errorf("comma-bearing field not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"DOC987654; DOC111111"`) {
		t.Errorf("list field not rendered: %q", lines[1])
	}
}

func TestExport_Doctors(t *testing.T) {
	svc := newTestService()

	export, err := svc.ExportRegistry(context.Background(), KindDoctors)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.Filename != "doctors_2024-03-10.csv" {
		t.Errorf("unexpected filename %q", export.Filename)
	}
	if !strings.HasPrefix(export.Content, "DoctorID,IdentityID,Name,Email,Specialization,HospitalAffiliation\n") {
		t.Errorf("unexpected header in %q", export.Content)
	}
	if !strings.Contains(export.Content, "DOC987654,345678901234,Dr. Anjali Desai") {
		t.Errorf("missing doctor row: %q", export.Content)
	}
}

func TestExport_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.ExportRegistry(ctx, KindPatients)
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	second, err := svc.ExportRegistry(ctx, KindPatients)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if first.Content != second.Content {
		t.Error("export content must be identical without registry mutation")
	}
}

func TestExport_UnknownKind(t *testing.T) {
	svc := newTestService()

	if _, err := svc.ExportRegistry(context.Background(), "identities"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc := newTestService()
	svc.RegisterCounter("access_requests", staticCounter(4))
	svc.RegisterCounter("history_entries", staticCounter(7))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := map[string]int{"patients": 1, "doctors": 1, "access_requests": 4, "history_entries": 7}
	for k, v := range want {
		if stats[k] != v {
			t.Errorf("stats[%s] = %d, want %d", k, stats[k], v)
		}
	}
}
