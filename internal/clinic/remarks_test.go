package clinic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemarksDerivation(t *testing.T) {
	tests := []struct {
		name string
		d    Disposition
		want string
	}{
		{"nothing checked", Disposition{}, ""},
		{"fit to work", Disposition{FitToWork: true}, "Patient is fit to work."},
		{"rest with days", Disposition{Rest: true, RestDays: "5"}, "Patient is advised to rest for 5 day(s)."},
		{"rest with blank days", Disposition{Rest: true}, "Patient is advised to rest for several day(s)."},
		{"monitoring", Disposition{Monitor: true}, "Child requires continued monitoring."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Remarks())
		})
	}
}

func TestRemarksFirstTrueWins(t *testing.T) {
	// The form prevents this state, but if it ever occurs the precedence is
	// fit, then rest, then monitor.
	d := Disposition{FitToWork: true, Rest: true, RestDays: "3", Monitor: true}
	assert.Equal(t, "Patient is fit to work.", d.Remarks())

	d.FitToWork = false
	assert.True(t, strings.Contains(d.Remarks(), "rest for 3 day(s)"))
}

func TestCheckClearsSiblings(t *testing.T) {
	var d Disposition
	d.Check(DispositionFit)
	assert.True(t, d.FitToWork)

	// Last-checked wins; siblings are cleared.
	d.Check(DispositionRest)
	assert.False(t, d.FitToWork)
	assert.True(t, d.Rest)

	d.Check(DispositionMonitor)
	assert.False(t, d.Rest)
	assert.True(t, d.Monitor)
}

func TestToggleOffClearsAll(t *testing.T) {
	var d Disposition
	d.Toggle(DispositionRest)
	assert.True(t, d.Rest)

	d.Toggle(DispositionRest)
	assert.Equal(t, Disposition{}, d)
	assert.Equal(t, "", d.Remarks())
}
