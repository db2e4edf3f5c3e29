package ui

import (
	"context"

	"clinicterm/internal/clinic"
)

// Backend is the slice of the clinic client the UI needs. Tests substitute
// a fake; production wires *clinic.Client.
type Backend interface {
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
	SearchPatients(ctx context.Context, query string) ([]clinic.Patient, error)
	GetPatient(ctx context.Context, id int64) (*clinic.Patient, error)
	SavePatient(ctx context.Context, p clinic.Patient) (int64, error)
	DeletePatient(ctx context.Context, id int64) error
	ListVisits(ctx context.Context, patientID int64) ([]clinic.Visit, error)
	GetVisit(ctx context.Context, id int64) (*clinic.Visit, error)
	SaveVisit(ctx context.Context, patientID int64, v clinic.Visit) (int64, error)
	DeleteVisit(ctx context.Context, id int64) error
	PrintURL(visitID int64) string
}

// PatientContext is the explicit selection the visit page operates on. It
// replaces any notion of a process-wide "current patient": every visit
// message carries the patient id it was issued for, and the app discards
// replies for a patient that is no longer selected.
type PatientContext struct {
	Patient clinic.Patient
}

// ---- Messages ----

// errMsg reports a failed backend call.
type errMsg struct {
	err error
}

// patientsLoadedMsg delivers a (possibly filtered) patient list.
type patientsLoadedMsg struct {
	patients []clinic.Patient
	query    string
}

// patientFetchedMsg delivers a single patient for the edit form.
type patientFetchedMsg struct {
	patient *clinic.Patient
}

// patientSavedMsg reports a successful create or update.
type patientSavedMsg struct {
	id      int64
	created bool
}

// patientDeletedMsg reports a successful delete.
type patientDeletedMsg struct {
	id int64
}

// visitsLoadedMsg delivers the visit list for one patient.
type visitsLoadedMsg struct {
	patientID int64
	visits    []clinic.Visit
}

// visitFetchedMsg delivers a single visit for the edit form.
type visitFetchedMsg struct {
	patientID int64
	visit     *clinic.Visit
}

// visitSavedMsg reports a successful visit create or update.
type visitSavedMsg struct {
	patientID int64
	id        int64
	created   bool
}

// visitDeletedMsg reports a successful visit delete.
type visitDeletedMsg struct {
	patientID int64
	id        int64
}

// printOpenedMsg reports that the certificate URL was handed to the browser.
type printOpenedMsg struct {
	url string
}

// searchDebounceMsg fires when the search box has been idle long enough.
// seq guards against firing for superseded input.
type searchDebounceMsg struct {
	seq int
}

// confirmResultMsg resolves a confirm dialog. action is the pending
// operation the dialog was guarding.
type confirmResultMsg struct {
	ok     bool
	action interface{}
}

// deletePatientAction is a pending patient delete awaiting confirmation.
type deletePatientAction struct {
	id   int64
	name string
}

// deleteVisitAction is a pending visit delete awaiting confirmation.
type deleteVisitAction struct {
	patientID int64
	id        int64
}
