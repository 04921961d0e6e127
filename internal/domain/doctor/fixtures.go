package doctor

import "github.com/medirecord/medirecord/internal/platform/store"

// Seed writes the fixture registry into the snapshot, replacing whatever
// was there.
func Seed(snap store.Snapshot) error {
	return snap.Save(store.KeyDoctors, seedDoctors())
}

func seedDoctors() []*Doctor {
	return []*Doctor{
		{
			IdentityID:          "345678901234",
			DoctorID:            "DOC987654",
			Name:                "Dr. Anjali Desai",
			Email:               "doctor@example.com",
			Specialization:      "Cardiologist",
			HospitalAffiliation: "City Medical Center",
		},
	}
}
