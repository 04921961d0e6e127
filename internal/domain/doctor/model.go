package doctor

// Doctor is a registered practitioner profile. Login is OTP-based against
// the identity registry, so no credential is stored here.
type Doctor struct {
	IdentityID          string `json:"identity_id"`
	DoctorID            string `json:"doctor_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Specialization      string `json:"specialization"`
	HospitalAffiliation string `json:"hospital_affiliation"`
}
