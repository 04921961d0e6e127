package history

import "time"

const dateLayout = "2006-01-02"

// Entry is one medical-history record for a patient. Entries are
// append-only; DoctorID and DoctorName are empty for patient self-uploads.
type Entry struct {
	EntryID    string     `json:"entry_id"`
	PatientID  string     `json:"patient_id"`
	Date       string     `json:"date"`
	DoctorID   string     `json:"doctor_id,omitempty"`
	DoctorName string     `json:"doctor_name,omitempty"`
	Notes      string     `json:"notes"`
	Documents  []Document `json:"documents"`
}

// Document is an attachment on a history entry. The entry's document list
// is the canonical attachment record.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FileRecord is the per-patient file index persisted under the file
// registry key. It is derived from entry documents by the single write path
// in the service; it never diverges from them.
type FileRecord struct {
	PatientID string `json:"patient_id"`
	Files     []File `json:"files"`
}

// File is one row of the patient's file index.
type File struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Date string `json:"date"`
	URL  string `json:"url"`
}

// ValidDate reports whether s is an ISO calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
