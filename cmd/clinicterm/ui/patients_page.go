package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"clinicterm/internal/clinic"
)

// PatientsPage is the main table of patient records with an incremental,
// debounced search box.
type PatientsPage struct {
	width  int
	height int
	table  table.Model

	patients []clinic.Patient

	search        textinput.Model
	searchFocused bool
	debounce      time.Duration
	searchSeq     int // invalidates stale debounce ticks
	lastQuery     string

	styles Styles
}

// NewPatientsPage creates the page. debounce controls how long search input
// must be idle before a request fires.
func NewPatientsPage(debounce time.Duration, styles Styles) PatientsPage {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 36},
			{Title: "Sex", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	search := textinput.New()
	search.Placeholder = "Search patients by name..."
	search.CharLimit = 120
	search.Width = 40

	return PatientsPage{
		table:    t,
		search:   search,
		debounce: debounce,
		styles:   styles,
	}
}

// Update handles page-local events. It returns a command when the search
// box wants a (debounced) request issued.
func (p PatientsPage) Update(msg tea.Msg) (PatientsPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "/":
			if !p.searchFocused {
				p.searchFocused = true
				p.search.Focus()
				return p, nil
			}
		case "esc":
			if p.searchFocused {
				p.searchFocused = false
				p.search.Blur()
				return p, nil
			}
		case "enter":
			if p.searchFocused {
				// Fire immediately; invalidate any pending tick.
				p.searchFocused = false
				p.search.Blur()
				p.searchSeq++
				seq := p.searchSeq
				return p, func() tea.Msg { return searchDebounceMsg{seq: seq} }
			}
		}

		if p.searchFocused {
			var cmd tea.Cmd
			before := p.search.Value()
			p.search, cmd = p.search.Update(msg)
			if p.search.Value() != before {
				p.searchSeq++
				seq := p.searchSeq
				return p, tea.Batch(cmd, tea.Tick(p.debounce, func(time.Time) tea.Msg {
					return searchDebounceMsg{seq: seq}
				}))
			}
			return p, cmd
		}

		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return p, cmd

	case searchDebounceMsg:
		// A newer keystroke superseded this tick.
		if msg.seq != p.searchSeq {
			return p, nil
		}
	}
	return p, nil
}

// DebounceReady reports whether the given debounce message is current, and
// the query to run. An empty query means "reload the unfiltered list".
func (p *PatientsPage) DebounceReady(msg searchDebounceMsg) (string, bool) {
	if msg.seq != p.searchSeq {
		return "", false
	}
	query := strings.TrimSpace(p.search.Value())
	if query == p.lastQuery {
		return "", false
	}
	p.lastQuery = query
	return query, true
}

// SetPatients replaces the table contents.
func (p *PatientsPage) SetPatients(patients []clinic.Patient) {
	p.patients = patients
	rows := make([]table.Row, 0, len(patients))
	for _, pat := range patients {
		rows = append(rows, table.Row{
			strconv.FormatInt(pat.ID, 10),
			pat.Name,
			pat.Sex,
		})
	}
	p.table.SetRows(rows)
	if len(rows) > 0 && p.table.Cursor() >= len(rows) {
		p.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the patient under the cursor.
func (p PatientsPage) Selected() (clinic.Patient, bool) {
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.patients) {
		return clinic.Patient{}, false
	}
	return p.patients[idx], true
}

// SearchFocused reports whether the search box is capturing input.
func (p PatientsPage) SearchFocused() bool {
	return p.searchFocused
}

// Query returns the current search text.
func (p PatientsPage) Query() string {
	return strings.TrimSpace(p.search.Value())
}

// SetSize updates the layout.
func (p *PatientsPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.table.SetWidth(w - 4)
	if h > 9 {
		p.table.SetHeight(h - 9)
	}
}

// View renders the page.
func (p PatientsPage) View() string {
	var sb strings.Builder

	sb.WriteString(p.styles.Header.Render(" Patients ") + "\n\n")

	searchBar := p.search.View()
	if p.searchFocused {
		searchBar = p.styles.FieldFocused.Render("/ ") + searchBar
	} else {
		searchBar = p.styles.Muted.Render("/ ") + searchBar
	}
	sb.WriteString(searchBar + "\n\n")

	sb.WriteString(p.styles.Content.Render(p.table.View()) + "\n")

	count := fmt.Sprintf("%d patient(s)", len(p.patients))
	if q := p.Query(); q != "" {
		count += fmt.Sprintf(" matching %q", q)
	}
	sb.WriteString(p.styles.Muted.Render(count))

	return sb.String()
}
