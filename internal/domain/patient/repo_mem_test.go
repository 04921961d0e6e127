package patient

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medirecord/medirecord/internal/platform/store"
)

func TestMemoryRepository_SeedsWhenSnapshotEmpty(t *testing.T) {
	repo := NewMemoryRepository(store.OpenMemory(), zerolog.Nop())

	p, err := repo.GetByID(context.Background(), "PAT103245")
	if err != nil {
		t.Fatalf("expected seed patient, got %v", err)
	}
	if !p.Authorized("DOC987654") {
		t.Error("seed patient should authorize the fixture doctor")
	}
}

func TestMemoryRepository_RoundTrip(t *testing.T) {
	snap := store.OpenMemory()
	ctx := context.Background()

	first := NewMemoryRepository(snap, zerolog.Nop())
	if err := first.Insert(ctx, &Patient{
		IdentityID: "234567890123",
		PatientID:  "PAT555555",
		Name:       "Priya Patel",
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := first.AddAuthorizedDoctor(ctx, "PAT555555", "DOC111111"); err != nil {
		t.Fatalf("authorize: %v", err)
	}

	// A fresh repository over the same snapshot must reproduce the
	// collection exactly.
	second := NewMemoryRepository(snap, zerolog.Nop())
	want, err := first.ListAll(ctx)
	if err != nil {
		t.Fatalf("list first: %v", err)
	}
	got, err := second.ListAll(ctx)
	if err != nil {
		t.Fatalf("list second: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("reloaded registry differs:\nwant %+v\ngot  %+v", want, got)
	}

	p, err := second.GetByID(ctx, "PAT555555")
	if err != nil {
		t.Fatalf("reloaded patient missing: %v", err)
	}
	if !p.Authorized("DOC111111") {
		t.Error("authorized set lost across reload")
	}
}

func TestMemoryRepository_SnapshotReplacesSeeds(t *testing.T) {
	snap := store.OpenMemory()
	if err := snap.Save(store.KeyPatients, []*Patient{{
		IdentityID: "234567890123",
		PatientID:  "PAT000001",
	}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	repo := NewMemoryRepository(snap, zerolog.Nop())
	n, _ := repo.Count(context.Background())
	if n != 1 {
		t.Errorf("snapshot must replace seeds, not merge: got %d patients", n)
	}
	if _, err := repo.GetByID(context.Background(), "PAT103245"); err == nil {
		t.Error("seed patient should not survive a snapshot load")
	}
}
