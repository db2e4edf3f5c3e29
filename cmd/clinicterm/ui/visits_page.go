package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"clinicterm/internal/clinic"
)

// VisitsPage is the modal visit table, always scoped to one explicitly
// selected patient.
type VisitsPage struct {
	ctx    PatientContext
	table  table.Model
	visits []clinic.Visit
	styles Styles
}

// NewVisitsPage creates the page for the given patient.
func NewVisitsPage(ctx PatientContext, styles Styles) VisitsPage {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Date", Width: 22},
			{Title: "Status", Width: 14},
			{Title: "Diagnosis", Width: 28},
			{Title: "Remarks", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return VisitsPage{ctx: ctx, table: t, styles: styles}
}

// PatientID returns the id of the patient this page is scoped to.
func (p VisitsPage) PatientID() int64 {
	return p.ctx.Patient.ID
}

// Update handles table navigation.
func (p VisitsPage) Update(msg tea.Msg) (VisitsPage, tea.Cmd) {
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

// SetVisits replaces the table contents. Messages for a different patient
// must be dropped by the caller before getting here.
func (p *VisitsPage) SetVisits(visits []clinic.Visit) {
	p.visits = visits
	rows := make([]table.Row, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, table.Row{
			strconv.FormatInt(v.ID, 10),
			v.VisitDate,
			v.Status,
			v.Diagnosis,
			v.Remarks,
		})
	}
	p.table.SetRows(rows)
	if len(rows) > 0 && p.table.Cursor() >= len(rows) {
		p.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the visit under the cursor.
func (p VisitsPage) Selected() (clinic.Visit, bool) {
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.visits) {
		return clinic.Visit{}, false
	}
	return p.visits[idx], true
}

// SetSize updates the layout.
func (p *VisitsPage) SetSize(w, h int) {
	p.table.SetWidth(w - 4)
	if h > 8 {
		p.table.SetHeight(h - 8)
	}
}

// View renders the page.
func (p VisitsPage) View() string {
	var sb strings.Builder

	title := fmt.Sprintf(" Visits — %s ", p.ctx.Patient.Name)
	sb.WriteString(p.styles.Header.Render(title) + "\n\n")
	sb.WriteString(p.styles.Content.Render(p.table.View()) + "\n")
	sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("%d visit(s)", len(p.visits))))

	return sb.String()
}
