// Package mailer delivers transactional email through the Resend HTTP API,
// falling back to plain SMTP when an SMTP host is configured.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"

	"github.com/Cyberod/Taskify-Backend/config"
)

const resendEndpoint = "https://api.resend.com/emails"

type Mailer struct {
	cfg    config.EmailConfig
	logger *slog.Logger
}

func New(cfg config.EmailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) SendInvite(email, token string) bool {
	link := fmt.Sprintf("%s/invites/accept?token=%s", m.cfg.BaseURL, token)
	html := fmt.Sprintf(
		`<p>You have been invited to join a project on Taskify.</p>`+
			`<p><a href="%s">Accept the invitation</a></p>`+
			`<p>This invitation expires in a few days.</p>`,
		link,
	)
	return m.send(email, "You've been invited to a project", html)
}

func (m *Mailer) SendVerification(email, otp string) bool {
	html := fmt.Sprintf(
		`<p>Your verification code is:</p><h2>%s</h2>`+
			`<p>It expires in 10 minutes.</p>`,
		otp,
	)
	return m.send(email, "Verify your email", html)
}

func (m *Mailer) SendPasswordReset(email, otp string) bool {
	html := fmt.Sprintf(
		`<p>Your password reset code is:</p><h2>%s</h2>`+
			`<p>It expires in 15 minutes. If you didn't request this, ignore this email.</p>`,
		otp,
	)
	return m.send(email, "Reset your password", html)
}

func (m *Mailer) send(to, subject, html string) bool {
	var err error
	if m.cfg.SMTPEnabled {
		err = m.sendViaSMTP(to, subject, html)
	} else {
		err = m.sendViaResend(to, subject, html)
	}
	if err != nil {
		m.logger.Warn("email send failed", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) sendViaResend(to, subject, html string) error {
	body := resendRequest{
		From:    m.cfg.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", resendEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}
	return nil
}

func (m *Mailer) sendViaSMTP(to, subject, html string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	msg := "From: " + m.cfg.FromEmail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogOnly is a Notifier for development and tests: it logs instead of
// sending.
type LogOnly struct {
	Logger *slog.Logger
}

func (l LogOnly) SendInvite(email, token string) bool {
	l.Logger.Info("invite email (not sent)", "to", email, "token", token)
	return true
}

func (l LogOnly) SendVerification(email, otp string) bool {
	l.Logger.Info("verification email (not sent)", "to", email, "otp", otp)
	return true
}

func (l LogOnly) SendPasswordReset(email, otp string) bool {
	l.Logger.Info("password reset email (not sent)", "to", email, "otp", otp)
	return true
}
