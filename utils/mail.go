package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
)

type EmailItem struct {
	Name     string
	Quantity int
	Price    string
}

type EmailData struct {
	Name      string
	Message   string
	ActionURL string
	LogoURL   string
	OrderID   string
	Items     []EmailItem
	Total     string
}

type MailConfig struct {
	From         string
	Password     string
	SMTPHost     string
	SMTPAddress  string
	TemplatesDir string
}

type SMTPMailer struct {
	cfg MailConfig
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func RenderEmail(templatePath string, data EmailData) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (m *SMTPMailer) SendEmail(emailTo string, emailSubject string, data EmailData, templateName string) error {
	body, err := RenderEmail(filepath.Join(m.cfg.TemplatesDir, templateName), data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)

	err = smtp.SendMail(m.cfg.SMTPAddress, auth, m.cfg.From, []string{emailTo}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
