package history

import (
	"strings"

	"github.com/medirecord/medirecord/internal/platform/store"
)

// Seed writes the fixture entries and the derived file index into the
// snapshot, replacing whatever was there.
func Seed(snap store.Snapshot) error {
	entries := seedEntries()
	if err := snap.Save(store.KeyMedicalHistory, entries); err != nil {
		return err
	}
	return snap.Save(store.KeyPatientFiles, filesFromEntries(entries))
}

func seedEntries() []*Entry {
	return []*Entry{
		{
			EntryID:    "MH001",
			PatientID:  "PAT103245",
			Date:       "2023-10-15",
			DoctorID:   "DOC987654",
			DoctorName: "Dr. Anjali Desai",
			Notes:      "Patient presented with symptoms of common cold. Prescribed antihistamines and rest.",
			Documents:  []Document{{Name: "Prescription.pdf", URL: "#"}},
		},
		{
			EntryID:    "MH002",
			PatientID:  "PAT103245",
			Date:       "2023-09-02",
			DoctorID:   "DOC987654",
			DoctorName: "Dr. Anjali Desai",
			Notes:      "Routine check-up. Blood pressure normal. Recommended regular exercise.",
			Documents: []Document{
				{Name: "BloodTest.pdf", URL: "#"},
				{Name: "CheckupReport.pdf", URL: "#"},
			},
		},
	}
}

// fileType derives the index's type column from the attachment name.
func fileType(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "file"
	}
	return strings.ToLower(name[i+1:])
}
