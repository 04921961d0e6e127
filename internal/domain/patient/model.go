package patient

// Patient is a registered patient profile. AuthorizedDoctorIDs is the set of
// doctors currently permitted to view and append this patient's medical
// history; it changes only through the access-request workflow and explicit
// revocation.
type Patient struct {
	IdentityID          string   `json:"identity_id"`
	PatientID           string   `json:"patient_id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	AuthorizedDoctorIDs []string `json:"authorized_doctor_ids"`
}

// Authorized reports whether doctorID is in the patient's authorized set.
func (p *Patient) Authorized(doctorID string) bool {
	for _, id := range p.AuthorizedDoctorIDs {
		if id == doctorID {
			return true
		}
	}
	return false
}
