package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Email is a rendered message ready for a Sender.
type Email struct {
	Subject string
	HTML    string
}

type emailData struct {
	ProjectName string
	Email       string
	Link        string
	ValidFor    string
}

// NewAccountEmail renders the verification email sent after registration.
func NewAccountEmail(projectName, frontendHost, email, token string, validFor time.Duration) (Email, error) {
	data := emailData{
		ProjectName: projectName,
		Email:       email,
		Link:        actionLink(frontendHost, "/verify-email", token),
		ValidFor:    humanDuration(validFor),
	}
	html, err := render("new_account.html", data)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: projectName + " - Verify your email", HTML: html}, nil
}

// ResetPasswordEmail renders the password recovery email.
func ResetPasswordEmail(projectName, frontendHost, email, token string, validFor time.Duration) (Email, error) {
	data := emailData{
		ProjectName: projectName,
		Email:       email,
		Link:        actionLink(frontendHost, "/reset-password", token),
		ValidFor:    humanDuration(validFor),
	}
	html, err := render("reset_password.html", data)
	if err != nil {
		return Email{}, err
	}
	return Email{Subject: fmt.Sprintf("%s - Password recovery for user %s", projectName, email), HTML: html}, nil
}

func actionLink(frontendHost, path, token string) string {
	return strings.TrimRight(frontendHost, "/") + path + "?token=" + url.QueryEscape(token)
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// humanDuration formats whole hours or minutes, e.g. "1 hour", "15 minutes".
func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	return plural(int(d/time.Minute), "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
