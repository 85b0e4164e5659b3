// Package mail renders the transactional emails and delivers them over SMTP.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	texttemplate "text/template"
)

const (
	TemplateNewAccount      = "new_account"
	TemplateResetPassword   = "reset_password"
	TemplateUsername        = "username"
	TemplatePasswordChanged = "password_changed"
	TemplateNewComment      = "new_comment"
	TemplateExportReady     = "export_ready"
)

var subjects = map[string]string{
	TemplateNewAccount:      "{{.ProjectName}} - New account for user {{.Username}}",
	TemplateResetPassword:   "{{.ProjectName}} - Password recovery for user {{.Username}}",
	TemplateUsername:        "{{.ProjectName}} - Username recovery",
	TemplatePasswordChanged: "{{.ProjectName}} - Your password was changed",
	TemplateNewComment:      "{{.ProjectName}} - New comment",
	TemplateExportReady:     "{{.ProjectName}} - Your data export is ready",
}

//go:embed templates/*.html
var templateFS embed.FS

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Renderer struct {
	projectName string
	bodies      *template.Template
	subjects    map[string]*texttemplate.Template
}

func NewRenderer(projectName string) (*Renderer, error) {
	bodies, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	parsed := make(map[string]*texttemplate.Template, len(subjects))
	for name, src := range subjects {
		t, err := texttemplate.New(name).Option("missingkey=zero").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subject %s: %w", name, err)
		}
		parsed[name] = t
	}

	return &Renderer{projectName: projectName, bodies: bodies, subjects: parsed}, nil
}

// Render builds the message for template name. ProjectName is always available to templates.
func (r *Renderer) Render(to, name string, data map[string]string) (Message, error) {
	subjectTmpl, ok := r.subjects[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	vars := map[string]string{"ProjectName": r.projectName}
	maps.Copy(vars, data)

	var subject bytes.Buffer
	if err := subjectTmpl.Execute(&subject, vars); err != nil {
		return Message{}, fmt.Errorf("failed to execute subject %s: %w", name, err)
	}

	var body bytes.Buffer
	if err := r.bodies.ExecuteTemplate(&body, name+".html", vars); err != nil {
		return Message{}, fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return Message{To: to, Subject: subject.String(), HTML: body.String()}, nil
}
