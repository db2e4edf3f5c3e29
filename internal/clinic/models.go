// Package clinic is the client SDK for the clinic records backend. It speaks
// the backend's JSON contract and owns no state beyond the connection.
package clinic

// Patient represents a patient record.
type Patient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Sex  string `json:"sex,omitempty"`
}

// Visit represents a dated clinical encounter belonging to one patient.
// PatientID is only populated on single-visit fetches; list responses are
// already scoped by patient.
type Visit struct {
	ID         int64  `json:"id"`
	PatientID  int64  `json:"patient_id,omitempty"`
	VisitDate  string `json:"visit_date,omitempty"`
	Age        int    `json:"age,omitempty"`
	Address    string `json:"address,omitempty"`
	Status     string `json:"status,omitempty"`
	History    string `json:"history,omitempty"`
	PE         string `json:"pe,omitempty"`
	Diagnosis  string `json:"diagnosis,omitempty"`
	Management string `json:"management,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

// Validate checks the fields the backend would reject anyway, so the user
// gets a precise error before a request is made.
func (p *Patient) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}
	return nil
}

// mutationResponse is the backend's reply to create/update/delete calls.
// A reply without Message counts as a failure even on HTTP 200.
type mutationResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	PatientID int64  `json:"patient_id"`
	VisitID   int64  `json:"visit_id"`
}

// errorResponse is the backend's reply on 4xx/5xx.
type errorResponse struct {
	Error string `json:"error"`
}
