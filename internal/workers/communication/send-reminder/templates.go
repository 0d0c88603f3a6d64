// internal/workers/communication/send-reminder/templates.go
package sendreminder

import (
	"bytes"
	"fmt"
	"text/template"
)

type reminderData struct {
	Recipient string
	Name      string
	Due       string
	Detail    string
}

type reminderTemplate struct {
	subject *template.Template
	body    *template.Template
	sms     *template.Template
}

var templates = map[string]reminderTemplate{
	KindMilestone: {
		subject: template.Must(template.New("subject").Parse(`Upcoming milestone: {{.Name}}`)),
		body: template.Must(template.New("body").Parse(`Hi {{.Recipient}},

Your next application milestone is "{{.Name}}" ({{.Due}}).
{{if .Detail}}
{{.Detail}}
{{end}}
Keep going, you are making progress.
CollegeEquity`)),
		sms: template.Must(template.New("sms").Parse(`CollegeEquity: "{{.Name}}" is due {{.Due}}.`)),
	},
	KindScholarship: {
		subject: template.Must(template.New("subject").Parse(`Scholarship deadline: {{.Name}}`)),
		body: template.Must(template.New("body").Parse(`Hi {{.Recipient}},

The application deadline for {{.Name}} is {{.Due}}.
{{if .Detail}}
Award: {{.Detail}}
{{end}}
Good luck with your application.
CollegeEquity`)),
		sms: template.Must(template.New("sms").Parse(`CollegeEquity: {{.Name}} closes {{.Due}}.`)),
	},
}

func render(t *template.Template, data reminderData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
