package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func openTestSnapshot(t *testing.T) (Snapshot, string) {
	t.Helper()
	dir := t.TempDir()
	snap, err := Open(filepath.Join(dir, "snapshot"), zerolog.New(os.Stderr))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	return snap, filepath.Join(dir, "snapshot")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	snap, _ := openTestSnapshot(t)
	defer snap.Close()

	in := []testRecord{{ID: "1", Name: "one"}, {ID: "2", Name: "two, with comma"}}
	if err := snap.Save(KeyPatients, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []testRecord
	found, err := snap.Load(KeyPatients, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected key to be found")
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: %+v vs %+v", in, out)
	}
}

func TestLoad_MissingKey(t *testing.T) {
	snap, _ := openTestSnapshot(t)
	defer snap.Close()

	var out []testRecord
	found, err := snap.Load("noSuchRegistry", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected missing key to report not found")
	}
}

func TestLoad_CorruptValueFallsBack(t *testing.T) {
	snap, path := openTestSnapshot(t)

	if err := snap.Save(KeyDoctors, []testRecord{{ID: "1"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap.Close()

	// Corrupt the value directly.
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("reopen raw: %v", err)
	}
	if err := db.Put([]byte(KeyDoctors), []byte("{not json"), nil); err != nil {
		t.Fatalf("corrupt put: %v", err)
	}
	db.Close()

	snap2, err := Open(path, zerolog.New(os.Stderr))
	if err != nil {
		t.Fatalf("reopen snapshot: %v", err)
	}
	defer snap2.Close()

	var out []testRecord
	found, err := snap2.Load(KeyDoctors, &out)
	if err != nil {
		t.Fatalf("load corrupt: %v", err)
	}
	if found {
		t.Error("corrupt value should be treated as absent")
	}
}

func TestSave_ReplacesWholeValue(t *testing.T) {
	snap, _ := openTestSnapshot(t)
	defer snap.Close()

	if err := snap.Save(KeyIdentities, []testRecord{{ID: "1"}, {ID: "2"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := snap.Save(KeyIdentities, []testRecord{{ID: "3"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []testRecord
	if _, err := snap.Load(KeyIdentities, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != "3" {
		t.Errorf("expected replacement write, got %+v", out)
	}
}

func TestMemorySnapshot_RoundTrip(t *testing.T) {
	snap := OpenMemory()
	defer snap.Close()

	in := []testRecord{{ID: "a", Name: "alpha"}}
	if err := snap.Save(KeyAccessRequests, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out []testRecord
	found, _ := snap.Load(KeyAccessRequests, &out)
	if !found || !reflect.DeepEqual(in, out) {
		t.Errorf("memory round trip mismatch: %+v", out)
	}
}
