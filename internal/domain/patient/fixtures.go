package patient

import "github.com/medirecord/medirecord/internal/platform/store"

// Seed writes the fixture registry into the snapshot, replacing whatever
// was there.
func Seed(snap store.Snapshot) error {
	return snap.Save(store.KeyPatients, seedPatients())
}

func seedPatients() []*Patient {
	return []*Patient{
		{
			IdentityID:          "123456789012",
			PatientID:           "PAT103245",
			Name:                "Rahul Sharma",
			Email:               "rahul.sharma@example.com",
			Phone:               "9876543210",
			Address:             "123 Main Street, Mumbai, Maharashtra",
			AuthorizedDoctorIDs: []string{"DOC987654"},
		},
	}
}
