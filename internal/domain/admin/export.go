// Package admin implements the admin dashboard's data views: registry
// counts and delimited-text export of the patient and doctor registries.
package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/medirecord/medirecord/internal/domain/doctor"
	"github.com/medirecord/medirecord/internal/domain/patient"
)

// Export kinds.
const (
	KindPatients = "patients"
	KindDoctors  = "doctors"
)

var (
	patientHeader = []string{"PatientID", "IdentityID", "Name", "Email", "Phone", "Address", "AuthorizedDoctors"}
	doctorHeader  = []string{"DoctorID", "IdentityID", "Name", "Email", "Specialization", "HospitalAffiliation"}
)

// Export is a rendered registry export: the delimited text plus the
// filename carrying the export date.
type Export struct {
	Filename string
	Content  string
}

// renderPatients formats the patient registry. List-valued fields are
// joined with "; " and quoted; any field containing a comma is quoted.
// Pure formatting, no I/O.
func renderPatients(patients []*patient.Patient, now time.Time) Export {
	var b strings.Builder
	b.WriteString(strings.Join(patientHeader, ","))
	b.WriteByte('\n')
	for _, p := range patients {
		row := []string{
			field(p.PatientID),
			field(p.IdentityID),
			field(p.Name),
			field(p.Email),
			field(p.Phone),
			field(p.Address),
			listField(p.AuthorizedDoctorIDs),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return Export{
		Filename: fmt.Sprintf("%s_%s.csv", KindPatients, now.Format("2006-01-02")),
		Content:  b.String(),
	}
}

func renderDoctors(doctors []*doctor.Doctor, now time.Time) Export {
	var b strings.Builder
	b.WriteString(strings.Join(doctorHeader, ","))
	b.WriteByte('\n')
	for _, d := range doctors {
		row := []string{
			field(d.DoctorID),
			field(d.IdentityID),
			field(d.Name),
			field(d.Email),
			field(d.Specialization),
			field(d.HospitalAffiliation),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return Export{
		Filename: fmt.Sprintf("%s_%s.csv", KindDoctors, now.Format("2006-01-02")),
		Content:  b.String(),
	}
}

// field quotes a value only when it contains a raw comma.
func field(v string) string {
	if strings.Contains(v, ",") {
		return `"` + v + `"`
	}
	return v
}

// listField renders a list value as one quoted field with "; "-joined
// members.
func listField(vs []string) string {
	return `"` + strings.Join(vs, "; ") + `"`
}
