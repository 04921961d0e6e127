package access

import "time"

// Status of an access request. pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a doctor-initiated, patient-decided grant of access to the
// patient's medical history. Decided requests are retained as a record of
// the decision.
type Request struct {
	RequestID    string     `json:"request_id"`
	DoctorID     string     `json:"doctor_id"`
	PatientID    string     `json:"patient_id"`
	Status       Status     `json:"status"`
	RequestDate  time.Time  `json:"request_date"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
}

// Terminal reports whether the request has been decided.
func (r *Request) Terminal() bool {
	return r.Status != StatusPending
}
