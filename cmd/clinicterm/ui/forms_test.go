package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicterm/internal/clinic"
)

func TestPatientFormRequiresName(t *testing.T) {
	f := NewPatientForm(nil, DefaultStyles())

	f, _, submitted := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submitted)
	assert.Equal(t, "Name is required", f.errMsg)

	f.name.SetValue("  Ana Cruz  ")
	f, _, submitted = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, submitted)
	assert.Equal(t, "Ana Cruz", f.Patient().Name)
}

func TestPatientFormPrefilledForEdit(t *testing.T) {
	f := NewPatientForm(&clinic.Patient{ID: 7, Name: "Ben Reyes", Sex: "M"}, DefaultStyles())

	p := f.Patient()
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Ben Reyes", p.Name)
	assert.Equal(t, "M", p.Sex)
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func TestVisitFormCheckboxesMutuallyExclusive(t *testing.T) {
	f := NewVisitForm(5, nil, DefaultStyles())

	f.setFocus(fieldFit)
	f, _, _ = f.Update(space())
	assert.True(t, f.disp.FitToWork)

	// Checking rest clears fit: last-checked wins.
	f.setFocus(fieldRest)
	f, _, _ = f.Update(space())
	assert.False(t, f.disp.FitToWork)
	assert.True(t, f.disp.Rest)

	f.setFocus(fieldMonitor)
	f, _, _ = f.Update(space())
	assert.False(t, f.disp.Rest)
	assert.True(t, f.disp.Monitor)
}

func TestVisitFormToggleOffClearsRemarks(t *testing.T) {
	f := NewVisitForm(5, nil, DefaultStyles())

	f.setFocus(fieldFit)
	f, _, _ = f.Update(space())
	f, _, _ = f.Update(space())

	assert.Equal(t, "", f.Visit().Remarks)
}

func TestVisitFormDerivesRestRemarks(t *testing.T) {
	f := NewVisitForm(5, nil, DefaultStyles())

	f.setFocus(fieldRest)
	f, _, _ = f.Update(space())
	f.restDays.SetValue("5")

	assert.Equal(t, "Patient is advised to rest for 5 day(s).", f.Visit().Remarks)
}

func TestVisitFormRestWithoutDays(t *testing.T) {
	f := NewVisitForm(5, nil, DefaultStyles())

	f.setFocus(fieldRest)
	f, _, _ = f.Update(space())

	assert.Equal(t, "Patient is advised to rest for several day(s).", f.Visit().Remarks)
}

func TestVisitFormPrefilledForEdit(t *testing.T) {
	v := &clinic.Visit{
		ID:         11,
		PatientID:  5,
		VisitDate:  "2026-08-01 09:30:00",
		Age:        34,
		Status:     "Stable",
		Diagnosis:  "URTI",
		Management: "Rest and fluids",
	}
	f := NewVisitForm(5, v, DefaultStyles())

	got := f.Visit()
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "2026-08-01 09:30:00", got.VisitDate)
	assert.Equal(t, 34, got.Age)
	assert.Equal(t, "URTI", got.Diagnosis)
	assert.Equal(t, int64(5), f.PatientID())
}

func TestVisitFormFocusWrapsThroughAllFields(t *testing.T) {
	f := NewVisitForm(5, nil, DefaultStyles())

	for i := 0; i < visitFieldCount; i++ {
		f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, 0, f.focus)

	f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, visitFieldCount-1, f.focus)
}
