package mailer

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	gomail "gopkg.in/mail.v2"
)

type SMTPMailer struct {
	fromEmail string
	dialer    *gomail.Dialer
	backoff   time.Duration
}

func NewSMTP(host string, port int, username, password, fromEmail string) (*SMTPMailer, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}
	d := gomail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second
	return &SMTPMailer{fromEmail: fromEmail, dialer: d, backoff: time.Second}, nil
}

// render executes the "subject" and "body" blocks of a template.
func render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	var sb, bb bytes.Buffer
	if err := tmpl.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", err
	}
	if err := tmpl.ExecuteTemplate(&bb, "body", data); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}

func (m *SMTPMailer) Send(templateFile, username, email string, data any) error {
	if email == "" {
		return ErrNoRecipient
	}
	subject, body, err := render(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	var lastErr error
	for i := 0; i < maxRetires; i++ {
		if lastErr = m.dialer.DialAndSend(msg); lastErr == nil {
			return nil
		}
		// exponential backoff
		time.Sleep(m.backoff * time.Duration(1<<i))
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetires, lastErr)
}

// NoopMailer renders the template and drops the message. Used when SMTP is
// not configured.
type NoopMailer struct{}

func (NoopMailer) Send(templateFile, username, email string, data any) error {
	if email == "" {
		return ErrNoRecipient
	}
	_, _, err := render(templateFile, data)
	return err
}
