package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"clinicterm/internal/clinic"
)

// PatientForm edits one patient. A zero ID means the save will create.
type PatientForm struct {
	id     int64
	name   textinput.Model
	sex    textinput.Model
	focus  int
	errMsg string
	styles Styles
}

// NewPatientForm builds the form, prefilled when editing.
func NewPatientForm(p *clinic.Patient, styles Styles) PatientForm {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 120
	name.Width = 40
	name.Focus()

	sex := textinput.New()
	sex.Placeholder = "M / F"
	sex.CharLimit = 12
	sex.Width = 12

	f := PatientForm{name: name, sex: sex, styles: styles}
	if p != nil {
		f.id = p.ID
		f.name.SetValue(p.Name)
		f.sex.SetValue(p.Sex)
	}
	return f
}

// Update handles key events. submitted is true once the user accepted the
// form with valid input.
func (f PatientForm) Update(msg tea.Msg) (PatientForm, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % 2)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus((f.focus + 1) % 2)
			return f, nil, false
		case "enter":
			if strings.TrimSpace(f.name.Value()) == "" {
				f.errMsg = "Name is required"
				return f, nil, false
			}
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.sex, cmd = f.sex.Update(msg)
	}
	return f, cmd, false
}

func (f *PatientForm) setFocus(i int) {
	f.focus = i
	f.name.Blur()
	f.sex.Blur()
	switch i {
	case 0:
		f.name.Focus()
	case 1:
		f.sex.Focus()
	}
}

// Patient returns the edited record.
func (f PatientForm) Patient() clinic.Patient {
	return clinic.Patient{
		ID:   f.id,
		Name: strings.TrimSpace(f.name.Value()),
		Sex:  strings.TrimSpace(f.sex.Value()),
	}
}

// View renders the form.
func (f PatientForm) View() string {
	var sb strings.Builder
	title := "New Patient"
	if f.id != 0 {
		title = fmt.Sprintf("Edit Patient #%d", f.id)
	}
	sb.WriteString(f.styles.Title.Render(title) + "\n\n")
	sb.WriteString(f.styles.FieldLabel.Render("Name") + f.name.View() + "\n")
	sb.WriteString(f.styles.FieldLabel.Render("Sex") + f.sex.View() + "\n")
	if f.errMsg != "" {
		sb.WriteString("\n" + f.styles.Error.Render(f.errMsg))
	}
	sb.WriteString("\n" + f.styles.Muted.Render("[Tab] Next field  [Enter] Save  [Esc] Cancel"))
	return f.styles.Dialog.Render(sb.String())
}

// visitField indices; the disposition group sits after the text fields.
const (
	fieldVisitDate = iota
	fieldAge
	fieldAddress
	fieldStatus
	fieldHistory
	fieldPE
	fieldDiagnosis
	fieldManagement
	fieldFit
	fieldRest
	fieldRestDays
	fieldMonitor
	visitFieldCount
)

// VisitForm edits one visit for a specific patient. The disposition
// checkboxes are mutually exclusive; Remarks is derived from them at save.
type VisitForm struct {
	id        int64
	patientID int64
	inputs    []textinput.Model
	restDays  textinput.Model
	disp      clinic.Disposition
	focus     int
	styles    Styles
}

// NewVisitForm builds the form for the given patient, prefilled when
// editing an existing visit.
func NewVisitForm(patientID int64, v *clinic.Visit, styles Styles) VisitForm {
	specs := []struct {
		placeholder string
		width       int
	}{
		{"YYYY-MM-DD HH:MM (blank = now)", 28},
		{"Age", 6},
		{"Address", 40},
		{"Status", 20},
		{"History", 60},
		{"Physical exam", 60},
		{"Diagnosis", 60},
		{"Management", 60},
	}
	inputs := make([]textinput.Model, len(specs))
	for i, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.Width = s.width
		ti.CharLimit = 500
		inputs[i] = ti
	}
	inputs[fieldVisitDate].Focus()

	restDays := textinput.New()
	restDays.Placeholder = "days"
	restDays.Width = 6
	restDays.CharLimit = 4

	f := VisitForm{patientID: patientID, inputs: inputs, restDays: restDays, styles: styles}
	if v != nil {
		f.id = v.ID
		f.inputs[fieldVisitDate].SetValue(v.VisitDate)
		if v.Age > 0 {
			f.inputs[fieldAge].SetValue(strconv.Itoa(v.Age))
		}
		f.inputs[fieldAddress].SetValue(v.Address)
		f.inputs[fieldStatus].SetValue(v.Status)
		f.inputs[fieldHistory].SetValue(v.History)
		f.inputs[fieldPE].SetValue(v.PE)
		f.inputs[fieldDiagnosis].SetValue(v.Diagnosis)
		f.inputs[fieldManagement].SetValue(v.Management)
	}
	return f
}

// Update handles key events. submitted is true once the user accepted the
// form.
func (f VisitForm) Update(msg tea.Msg) (VisitForm, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % visitFieldCount)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus((f.focus + visitFieldCount - 1) % visitFieldCount)
			return f, nil, false
		case "enter":
			return f, nil, true
		case " ":
			// Space toggles the focused checkbox; checking one clears the
			// others (last-checked wins).
			switch f.focus {
			case fieldFit:
				f.disp.Toggle(clinic.DispositionFit)
				return f, nil, false
			case fieldRest:
				f.disp.Toggle(clinic.DispositionRest)
				return f, nil, false
			case fieldMonitor:
				f.disp.Toggle(clinic.DispositionMonitor)
				return f, nil, false
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case f.focus < fieldFit:
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	case f.focus == fieldRestDays:
		f.restDays, cmd = f.restDays.Update(msg)
	}
	return f, cmd, false
}

func (f *VisitForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.restDays.Blur()
	if i < fieldFit {
		f.inputs[i].Focus()
	} else if i == fieldRestDays {
		f.restDays.Focus()
	}
}

// Disposition exposes the checkbox state.
func (f VisitForm) Disposition() clinic.Disposition {
	d := f.disp
	d.RestDays = strings.TrimSpace(f.restDays.Value())
	return d
}

// Visit returns the edited record with remarks derived from the
// disposition group.
func (f VisitForm) Visit() clinic.Visit {
	age, _ := strconv.Atoi(strings.TrimSpace(f.inputs[fieldAge].Value()))
	return clinic.Visit{
		ID:         f.id,
		VisitDate:  strings.TrimSpace(f.inputs[fieldVisitDate].Value()),
		Age:        age,
		Address:    strings.TrimSpace(f.inputs[fieldAddress].Value()),
		Status:     strings.TrimSpace(f.inputs[fieldStatus].Value()),
		History:    f.inputs[fieldHistory].Value(),
		PE:         f.inputs[fieldPE].Value(),
		Diagnosis:  f.inputs[fieldDiagnosis].Value(),
		Management: f.inputs[fieldManagement].Value(),
		Remarks:    f.Disposition().Remarks(),
	}
}

// PatientID returns the patient this form is scoped to.
func (f VisitForm) PatientID() int64 {
	return f.patientID
}

func (f VisitForm) checkbox(label string, checked bool, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return f.styles.FieldFocused.Render(line)
	}
	return f.styles.Body.Render(line)
}

// View renders the form.
func (f VisitForm) View() string {
	labels := []string{"Date", "Age", "Address", "Status", "History", "PE", "Diagnosis", "Management"}

	var sb strings.Builder
	title := "New Visit"
	if f.id != 0 {
		title = fmt.Sprintf("Edit Visit #%d", f.id)
	}
	sb.WriteString(f.styles.Title.Render(title) + "\n\n")
	for i, label := range labels {
		sb.WriteString(f.styles.FieldLabel.Render(label) + f.inputs[i].View() + "\n")
	}

	sb.WriteString("\n" + f.styles.FieldLabel.Render("Disposition") + "\n")
	sb.WriteString("  " + f.checkbox("Fit to work", f.disp.FitToWork, f.focus == fieldFit) + "\n")
	sb.WriteString("  " + f.checkbox("Advise rest for", f.disp.Rest, f.focus == fieldRest) +
		" " + f.restDays.View() + " " + f.styles.Muted.Render("day(s)") + "\n")
	sb.WriteString("  " + f.checkbox("Child requires monitoring", f.disp.Monitor, f.focus == fieldMonitor) + "\n")

	sb.WriteString("\n" + f.styles.Muted.Render("[Tab] Next field  [Space] Toggle  [Enter] Save  [Esc] Cancel"))
	return f.styles.Dialog.Render(sb.String())
}
