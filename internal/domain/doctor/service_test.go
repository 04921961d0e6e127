package doctor

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/medirecord/medirecord/internal/domain/identity"
)

type mockRepo struct {
	items []*Doctor
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	for _, d := range m.items {
		if d.DoctorID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByIdentity(_ context.Context, identityID string) (*Doctor, error) {
	for _, d := range m.items {
		if d.IdentityID == identityID {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Insert(_ context.Context, d *Doctor) error {
	for _, existing := range m.items {
		if existing.IdentityID == d.IdentityID {
			return ErrIdentityTaken
		}
	}
	m.items = append(m.items, d)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	return m.items, len(m.items), nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Doctor, error) {
	return m.items, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

type mockIdentities struct{}

func (mockIdentities) FindOrCreate(_ context.Context, identityID string) (*identity.Identity, error) {
	if !identity.ValidID(identityID) {
		return nil, identity.ErrInvalidID
	}
	return &identity.Identity{
		IdentityID: identityID,
		Name:       "Test Person",
		Email:      "test.person@example.com",
	}, nil
}

var doctorIDPattern = regexp.MustCompile(`^DOC\d{6}$`)

func TestRegister_GeneratesWellFormedID(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, mockIdentities{})

	d, err := svc.Register(context.Background(), "555566667777", "Cardiologist", "City Medical Center")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !doctorIDPattern.MatchString(d.DoctorID) {
		t.Errorf("doctor id %q does not match DOC followed by 6 digits", d.DoctorID)
	}
	if d.Name != "Dr. Test Person" {
		t.Errorf("expected title-prefixed name, got %q", d.Name)
	}
	if d.Specialization != "Cardiologist" || d.HospitalAffiliation != "City Medical Center" {
		t.Errorf("professional fields not stored: %+v", d)
	}
}

func TestRegister_RequiresSpecialization(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, mockIdentities{})

	if _, err := svc.Register(context.Background(), "555566667777", "", "City Medical Center"); err == nil {
		t.Error("expected error for empty specialization")
	}
	if len(repo.items) != 0 {
		t.Error("failed registration must not insert")
	}
}

func TestRegister_OneDoctorPerIdentity(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, mockIdentities{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "555566667777", "Cardiologist", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "555566667777", "Dermatologist", ""); !errors.Is(err, ErrIdentityTaken) {
		t.Errorf("expected ErrIdentityTaken, got %v", err)
	}
	if len(repo.items) != 1 {
		t.Errorf("expected one doctor, got %d", len(repo.items))
	}
}

func TestRegister_RejectsMalformedIdentity(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, mockIdentities{})

	if _, err := svc.Register(context.Background(), "nope", "Cardiologist", ""); !errors.Is(err, identity.ErrInvalidID) {
		t.Errorf("expected identity.ErrInvalidID, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo := &mockRepo{items: []*Doctor{{DoctorID: "DOC987654"}}}
	svc := NewService(repo, mockIdentities{})
	ctx := context.Background()

	ok, err := svc.Exists(ctx, "DOC987654")
	if err != nil || !ok {
		t.Errorf("expected registered doctor to exist, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.Exists(ctx, "DOC000000")
	if err != nil || ok {
		t.Errorf("expected unknown doctor to not exist, got ok=%v err=%v", ok, err)
	}
}
