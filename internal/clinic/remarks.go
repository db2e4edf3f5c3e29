package clinic

import "fmt"

// Disposition captures the mutually-exclusive fitness checkboxes on the
// visit form. At most one of FitToWork, Rest, Monitor may be set; the form
// enforces that, and Remarks resolves ties first-true-wins in that order.
type Disposition struct {
	FitToWork bool
	Rest      bool
	RestDays  string
	Monitor   bool
}

// Remarks derives the free-text remarks string from the disposition.
// Nothing checked derives the empty string.
func (d Disposition) Remarks() string {
	switch {
	case d.FitToWork:
		return "Patient is fit to work."
	case d.Rest:
		days := d.RestDays
		if days == "" {
			days = "several"
		}
		return fmt.Sprintf("Patient is advised to rest for %s day(s).", days)
	case d.Monitor:
		return "Child requires continued monitoring."
	default:
		return ""
	}
}

// Check sets one flag and clears the others, mirroring the sibling-clearing
// behavior of the checkbox group: the last box checked wins.
func (d *Disposition) Check(which DispositionKind) {
	d.FitToWork = which == DispositionFit
	d.Rest = which == DispositionRest
	d.Monitor = which == DispositionMonitor
}

// Toggle flips one flag; turning a flag on clears the others.
func (d *Disposition) Toggle(which DispositionKind) {
	var on bool
	switch which {
	case DispositionFit:
		on = d.FitToWork
	case DispositionRest:
		on = d.Rest
	case DispositionMonitor:
		on = d.Monitor
	}
	if on {
		d.FitToWork = false
		d.Rest = false
		d.Monitor = false
		return
	}
	d.Check(which)
}

// DispositionKind identifies one checkbox of the group.
type DispositionKind int

const (
	DispositionNone DispositionKind = iota
	DispositionFit
	DispositionRest
	DispositionMonitor
)
