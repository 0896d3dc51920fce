package templates

import (
	"strings"
	"text/template"
)

var emailTemplates = template.Must(template.New("reminders").Parse(`
{{define "offer_followup"}}Dear Team,

Please check agent reply or cancel PNR. Group: {{.PNR}}{{end}}

{{define "alert_pair"}}Dear Team,

The {{.Label}} deadline for PNR {{.PNR}} ({{.Agency}}) is on {{.Date}}, {{.DaysBefore}} days from today.{{end}}

{{define "airline_custom"}}Dear {{if .Recipient}}{{.Recipient}}{{else}}Team{{end}},

Reminder for {{.Label}} regarding PNR {{.PNR}}.{{end}}
`))

// EmailData is what a reminder body may substitute
type EmailData struct {
	PNR        string
	Agency     string
	Label      string
	Date       string
	DaysBefore int
	Recipient  string
}

// RenderEmail executes the named body template
func RenderEmail(name string, data EmailData) (string, error) {
	var b strings.Builder
	if err := emailTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
