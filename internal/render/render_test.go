package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinicterm/internal/clinic"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"plain text", "Ana Cruz", "Ana Cruz"},
		{"ampersand", "Smith & Sons", "Smith &amp; Sons"},
		{"angle brackets", "<script>", "&lt;script&gt;"},
		{"double quote", `say "hi"`, "say &quot;hi&quot;"},
		{"single quote", "O'Brien", "O&#39;Brien"},
		{"all five", `&<>"'`, "&amp;&lt;&gt;&quot;&#39;"},
		{"non-string value", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeHTML(tt.in))
		})
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"backend timestamp", "2026-08-01 09:30:00", "Aug 1, 2026 9:30 AM"},
		{"date only", "2026-08-01", "Aug 1, 2026"},
		{"garbage passes through", "yesterday-ish", "yesterday-ish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateTime(tt.in))
		})
	}
}

func TestHTMLReportEscapesValues(t *testing.T) {
	rows := []PatientVisits{
		{
			Patient: clinic.Patient{ID: 1, Name: `Ana <b>"Cruz"</b> & Co`, Sex: "F"},
			Visits: []clinic.Visit{
				{ID: 10, VisitDate: "2026-08-01 09:30:00", Diagnosis: "<URTI>", Remarks: "Patient is fit to work."},
			},
		},
	}
	out := HTMLReport(rows, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))

	assert.Contains(t, out, "&lt;URTI&gt;")
	assert.Contains(t, out, "Ana &lt;b&gt;&quot;Cruz&quot;&lt;/b&gt; &amp; Co")
	assert.NotContains(t, out, "<URTI>")
	assert.Contains(t, out, "Aug 1, 2026 9:30 AM")
	assert.Contains(t, out, "Patient is fit to work.")
}

func TestHTMLReportEmptyVisitList(t *testing.T) {
	rows := []PatientVisits{{Patient: clinic.Patient{ID: 2, Name: "Ben Reyes"}}}
	out := HTMLReport(rows, time.Now())
	assert.Contains(t, out, "No visits recorded")
}

func TestVisitMarkdownSkipsEmptySections(t *testing.T) {
	p := &clinic.Patient{ID: 1, Name: "Ana Cruz", Sex: "F"}
	v := &clinic.Visit{ID: 10, VisitDate: "2026-08-01 09:30:00", Diagnosis: "URTI"}

	md := VisitMarkdown(p, v)
	assert.True(t, strings.HasPrefix(md, "# Visit #10"))
	assert.Contains(t, md, "**Patient:** Ana Cruz (F)")
	assert.Contains(t, md, "## Diagnosis")
	assert.NotContains(t, md, "## History")
	assert.NotContains(t, md, "## Remarks")
}
