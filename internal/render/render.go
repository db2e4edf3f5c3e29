// Package render holds the display helpers: HTML escaping and date
// formatting for the report export, and markdown for visit detail views.
package render

import (
	"fmt"
	"strings"
	"time"

	"clinicterm/internal/clinic"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML converts a value to a safe display string. Nil becomes the
// empty string; everything else is stringified and has & < > " ' escaped.
func EscapeHTML(v interface{}) string {
	if v == nil {
		return ""
	}
	return htmlEscaper.Replace(fmt.Sprintf("%v", v))
}

// dateLayouts are the visit_date shapes the backend emits.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDateTime formats a backend timestamp for display. Empty input
// yields an empty string; unparseable input passes through unchanged.
func FormatDateTime(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
				return t.Format("Jan 2, 2006")
			}
			return t.Format("Jan 2, 2006 3:04 PM")
		}
	}
	return s
}

// PatientVisits pairs a patient with their visit history for the report.
type PatientVisits struct {
	Patient clinic.Patient
	Visits  []clinic.Visit
}

// HTMLReport renders a standalone HTML page of all patients with their
// visits. Every interpolated value goes through EscapeHTML.
func HTMLReport(rows []PatientVisits, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>Clinic Report</title>\n")
	sb.WriteString("<style>body{font-family:sans-serif}table{border-collapse:collapse;margin-bottom:1.5em}th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}caption{font-weight:bold;text-align:left;padding:4px 0}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString("<h1>Clinic Report</h1>\n")
	sb.WriteString("<p>Generated " + EscapeHTML(generatedAt.Format("Jan 2, 2006 3:04 PM")) + "</p>\n")

	for _, row := range rows {
		p := row.Patient
		caption := fmt.Sprintf("#%d %s", p.ID, p.Name)
		if p.Sex != "" {
			caption += " (" + p.Sex + ")"
		}
		sb.WriteString("<table>\n<caption>" + EscapeHTML(caption) + "</caption>\n")
		sb.WriteString("<tr><th>Date</th><th>Age</th><th>Status</th><th>Diagnosis</th><th>Management</th><th>Remarks</th></tr>\n")

		if len(row.Visits) == 0 {
			sb.WriteString("<tr><td colspan=\"6\">No visits recorded</td></tr>\n")
		}
		for _, v := range row.Visits {
			age := ""
			if v.Age > 0 {
				age = fmt.Sprintf("%d", v.Age)
			}
			sb.WriteString("<tr>")
			sb.WriteString("<td>" + EscapeHTML(FormatDateTime(v.VisitDate)) + "</td>")
			sb.WriteString("<td>" + EscapeHTML(age) + "</td>")
			sb.WriteString("<td>" + EscapeHTML(v.Status) + "</td>")
			sb.WriteString("<td>" + EscapeHTML(v.Diagnosis) + "</td>")
			sb.WriteString("<td>" + EscapeHTML(v.Management) + "</td>")
			sb.WriteString("<td>" + EscapeHTML(v.Remarks) + "</td>")
			sb.WriteString("</tr>\n")
		}
		sb.WriteString("</table>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// VisitMarkdown renders one visit as markdown for terminal display.
func VisitMarkdown(p *clinic.Patient, v *clinic.Visit) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Visit #%d\n\n", v.ID))
	if p != nil {
		sb.WriteString(fmt.Sprintf("**Patient:** %s", p.Name))
		if p.Sex != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", p.Sex))
		}
		sb.WriteString("\n\n")
	}
	if v.VisitDate != "" {
		sb.WriteString(fmt.Sprintf("**Date:** %s\n\n", FormatDateTime(v.VisitDate)))
	}
	if v.Age > 0 {
		sb.WriteString(fmt.Sprintf("**Age:** %d\n\n", v.Age))
	}
	if v.Address != "" {
		sb.WriteString(fmt.Sprintf("**Address:** %s\n\n", v.Address))
	}
	if v.Status != "" {
		sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", v.Status))
	}

	sections := []struct {
		title string
		text  string
	}{
		{"History", v.History},
		{"Physical Exam", v.PE},
		{"Diagnosis", v.Diagnosis},
		{"Management", v.Management},
		{"Remarks", v.Remarks},
	}
	for _, s := range sections {
		if s.text == "" {
			continue
		}
		sb.WriteString("## " + s.title + "\n\n" + s.text + "\n\n")
	}

	return sb.String()
}
