package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clinicterm/internal/browser"
	"clinicterm/internal/clinic"
	"clinicterm/internal/logging"
)

// OpenURLFunc hands a URL to the system browser. Swappable for tests.
type OpenURLFunc func(url string) error

// Options configures the App.
type Options struct {
	Backend        Backend
	SearchDebounce time.Duration
	Theme          string
	OpenURL        OpenURLFunc
}

// App is the root model: the patients page, the modal visits page, form
// and confirm overlays, and a status line.
type App struct {
	backend Backend
	openURL OpenURLFunc
	styles  Styles

	width  int
	height int

	page   PatientsPage
	visits *VisitsPage

	patientForm *PatientForm
	visitForm   *VisitForm
	confirm     *ConfirmModel

	spinner spinner.Model
	loading bool // in-flight guard: one request at a time
	status  string
	failed  bool
}

// NewApp builds the application model.
func NewApp(opts Options) App {
	styles := NewStyles(ResolveTheme(opts.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = browser.OpenURL
	}

	return App{
		backend: opts.Backend,
		openURL: openURL,
		styles:  styles,
		page:    NewPatientsPage(debounce, styles),
		spinner: sp,
	}
}

// Init triggers the initial patient list load.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadPatientsCmd(""))
}

// ---- Commands ----

func (a App) loadPatientsCmd(query string) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		patients, err := backend.SearchPatients(context.Background(), query)
		if err != nil {
			return errMsg{err}
		}
		return patientsLoadedMsg{patients: patients, query: query}
	}
}

func (a App) fetchPatientCmd(id int64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		p, err := backend.GetPatient(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return patientFetchedMsg{patient: p}
	}
}

func (a App) savePatientCmd(p clinic.Patient) tea.Cmd {
	backend := a.backend
	created := p.ID == 0
	return func() tea.Msg {
		id, err := backend.SavePatient(context.Background(), p)
		if err != nil {
			return errMsg{err}
		}
		return patientSavedMsg{id: id, created: created}
	}
}

func (a App) deletePatientCmd(id int64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		if err := backend.DeletePatient(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return patientDeletedMsg{id: id}
	}
}

func (a App) loadVisitsCmd(patientID int64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		visits, err := backend.ListVisits(context.Background(), patientID)
		if err != nil {
			return errMsg{err}
		}
		return visitsLoadedMsg{patientID: patientID, visits: visits}
	}
}

func (a App) fetchVisitCmd(patientID, id int64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		v, err := backend.GetVisit(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return visitFetchedMsg{patientID: patientID, visit: v}
	}
}

func (a App) saveVisitCmd(patientID int64, v clinic.Visit) tea.Cmd {
	backend := a.backend
	created := v.ID == 0
	return func() tea.Msg {
		id, err := backend.SaveVisit(context.Background(), patientID, v)
		if err != nil {
			return errMsg{err}
		}
		return visitSavedMsg{patientID: patientID, id: id, created: created}
	}
}

func (a App) deleteVisitCmd(patientID, id int64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		if err := backend.DeleteVisit(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return visitDeletedMsg{patientID: patientID, id: id}
	}
}

func (a App) openPrintCmd(visitID int64) tea.Cmd {
	backend := a.backend
	open := a.openURL
	return func() tea.Msg {
		url := backend.PrintURL(visitID)
		if err := open(url); err != nil {
			return errMsg{err}
		}
		return printOpenedMsg{url: url}
	}
}

// ---- Update ----

// Update is the single event loop.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.page.SetSize(msg.Width, msg.Height)
		if a.visits != nil {
			a.visits.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case errMsg:
		a.loading = false
		a.failed = true
		a.status = msg.err.Error()
		logging.Get(logging.CategoryUI).Warnf("operation failed: %v", msg.err)
		return a, nil

	case patientsLoadedMsg:
		a.loading = false
		// An out-of-order reply for a superseded query must not land.
		if msg.query != a.page.Query() {
			logging.UIDebug("dropping stale search results for %q", msg.query)
			return a, nil
		}
		a.page.SetPatients(msg.patients)
		return a, nil

	case patientFetchedMsg:
		a.loading = false
		form := NewPatientForm(msg.patient, a.styles)
		a.patientForm = &form
		return a, nil

	case patientSavedMsg:
		a.loading = true
		a.setStatus(savedStatus("Patient", msg.id, msg.created))
		return a, tea.Batch(a.spinner.Tick, a.loadPatientsCmd(a.page.Query()))

	case patientDeletedMsg:
		a.loading = true
		a.setStatus("Patient and their visits deleted")
		return a, tea.Batch(a.spinner.Tick, a.loadPatientsCmd(a.page.Query()))

	case visitsLoadedMsg:
		// The in-flight request settled either way; only let the reply
		// land when its patient is still the selected one.
		a.loading = false
		if a.visits == nil || a.visits.PatientID() != msg.patientID {
			logging.Session("dropping stale visit list for patient %d", msg.patientID)
			return a, nil
		}
		a.visits.SetVisits(msg.visits)
		return a, nil

	case visitFetchedMsg:
		a.loading = false
		if a.visits == nil || a.visits.PatientID() != msg.patientID {
			return a, nil
		}
		form := NewVisitForm(msg.patientID, msg.visit, a.styles)
		a.visitForm = &form
		return a, nil

	case visitSavedMsg:
		a.loading = false
		if a.visits == nil || a.visits.PatientID() != msg.patientID {
			return a, nil
		}
		a.loading = true
		a.setStatus(savedStatus("Visit", msg.id, msg.created))
		return a, tea.Batch(a.spinner.Tick, a.loadVisitsCmd(msg.patientID))

	case visitDeletedMsg:
		a.loading = false
		if a.visits == nil || a.visits.PatientID() != msg.patientID {
			return a, nil
		}
		a.loading = true
		a.setStatus("Visit deleted")
		return a, tea.Batch(a.spinner.Tick, a.loadVisitsCmd(msg.patientID))

	case printOpenedMsg:
		a.loading = false
		a.setStatus("Certificate opened in browser")
		return a, nil

	case searchDebounceMsg:
		var cmd tea.Cmd
		a.page, cmd = a.page.Update(msg)
		if a.loading {
			// One request at a time: retry once the current one settles. A
			// newer keystroke supersedes the retry via the sequence check.
			seq := msg.seq
			return a, tea.Batch(cmd, tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
				return searchDebounceMsg{seq: seq}
			}))
		}
		if query, ok := a.page.DebounceReady(msg); ok {
			a.loading = true
			return a, tea.Batch(cmd, a.spinner.Tick, a.loadPatientsCmd(query))
		}
		return a, cmd

	case confirmResultMsg:
		a.confirm = nil
		if !msg.ok {
			a.setStatus("Cancelled")
			return a, nil
		}
		switch action := msg.action.(type) {
		case deletePatientAction:
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.deletePatientCmd(action.id))
		case deleteVisitAction:
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.deleteVisitCmd(action.patientID, action.id))
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Overlays capture input first.
	if a.confirm != nil {
		cmd, open := a.confirm.Update(msg)
		if !open {
			a.confirm = nil
		}
		return a, cmd
	}

	if a.patientForm != nil {
		if msg.String() == "esc" {
			a.patientForm = nil
			a.setStatus("Cancelled")
			return a, nil
		}
		form, cmd, submitted := a.patientForm.Update(msg)
		a.patientForm = &form
		if submitted && !a.loading {
			p := form.Patient()
			a.patientForm = nil
			a.loading = true
			return a, tea.Batch(cmd, a.spinner.Tick, a.savePatientCmd(p))
		}
		return a, cmd
	}

	if a.visitForm != nil {
		if msg.String() == "esc" {
			a.visitForm = nil
			a.setStatus("Cancelled")
			return a, nil
		}
		form, cmd, submitted := a.visitForm.Update(msg)
		a.visitForm = &form
		if submitted && !a.loading {
			v := form.Visit()
			pid := form.PatientID()
			a.visitForm = nil
			a.loading = true
			return a, tea.Batch(cmd, a.spinner.Tick, a.saveVisitCmd(pid, v))
		}
		return a, cmd
	}

	if a.visits != nil {
		return a.handleVisitsKey(msg)
	}
	return a.handlePatientsKey(msg)
}

func (a App) handlePatientsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.page.SearchFocused() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "r":
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.loadPatientsCmd(a.page.Query()))
		case "a":
			form := NewPatientForm(nil, a.styles)
			a.patientForm = &form
			return a, nil
		case "e":
			if p, ok := a.page.Selected(); ok && !a.loading {
				a.loading = true
				return a, tea.Batch(a.spinner.Tick, a.fetchPatientCmd(p.ID))
			}
			return a, nil
		case "d":
			if p, ok := a.page.Selected(); ok {
				prompt := fmt.Sprintf("Delete patient %q and all their visits?", p.Name)
				confirm := NewConfirm(prompt, deletePatientAction{id: p.ID, name: p.Name}, a.styles)
				a.confirm = &confirm
			}
			return a, nil
		case "v", "enter":
			if p, ok := a.page.Selected(); ok && !a.loading {
				logging.Session("selected patient %d (%s)", p.ID, p.Name)
				page := NewVisitsPage(PatientContext{Patient: p}, a.styles)
				page.SetSize(a.width, a.height)
				a.visits = &page
				a.loading = true
				return a, tea.Batch(a.spinner.Tick, a.loadVisitsCmd(p.ID))
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	return a, cmd
}

func (a App) handleVisitsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.visits = nil
		return a, nil
	case "r":
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.loadVisitsCmd(a.visits.PatientID()))
	case "a":
		form := NewVisitForm(a.visits.PatientID(), nil, a.styles)
		a.visitForm = &form
		return a, nil
	case "e":
		if v, ok := a.visits.Selected(); ok && !a.loading {
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.fetchVisitCmd(a.visits.PatientID(), v.ID))
		}
		return a, nil
	case "d":
		if v, ok := a.visits.Selected(); ok {
			prompt := fmt.Sprintf("Delete visit #%d?", v.ID)
			confirm := NewConfirm(prompt, deleteVisitAction{patientID: a.visits.PatientID(), id: v.ID}, a.styles)
			a.confirm = &confirm
		}
		return a, nil
	case "p":
		if v, ok := a.visits.Selected(); ok && !a.loading {
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.openPrintCmd(v.ID))
		}
		return a, nil
	}

	page, cmd := a.visits.Update(msg)
	a.visits = &page
	return a, cmd
}

func (a *App) setStatus(s string) {
	a.status = s
	a.failed = false
}

func savedStatus(kind string, id int64, created bool) string {
	if created {
		return fmt.Sprintf("%s #%d created", kind, id)
	}
	return fmt.Sprintf("%s #%d updated", kind, id)
}

// ---- View ----

// View renders the current page with any overlay on top.
func (a App) View() string {
	var body string
	switch {
	case a.confirm != nil:
		body = a.overlay(a.confirm.View())
	case a.patientForm != nil:
		body = a.overlay(a.patientForm.View())
	case a.visitForm != nil:
		body = a.overlay(a.visitForm.View())
	case a.visits != nil:
		body = a.visits.View() + "\n" + a.footer(visitsHelp)
	default:
		body = a.page.View() + "\n" + a.footer(patientsHelp)
	}
	return body + "\n" + a.statusLine()
}

const (
	patientsHelp = "[/] Search  [Enter/v] Visits  [a] Add  [e] Edit  [d] Delete  [r] Reload  [q] Quit"
	visitsHelp   = "[a] Add  [e] Edit  [d] Delete  [p] Print certificate  [r] Reload  [Esc] Back"
)

func (a App) overlay(view string) string {
	if a.width == 0 || a.height == 0 {
		return view
	}
	return lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, view)
}

func (a App) footer(help string) string {
	return a.styles.Footer.Render(help)
}

func (a App) statusLine() string {
	if a.loading {
		return a.spinner.View() + a.styles.Muted.Render(" working...")
	}
	if a.status == "" {
		return ""
	}
	if a.failed {
		return a.styles.Error.Render("✗ " + a.status)
	}
	return a.styles.Success.Render("✓ " + a.status)
}
