package digest

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

// Sender delivers digest HTML over SMTP. SendMail upgrades to STARTTLS
// when the server advertises it, which Gmail's submission port does.
type Sender struct {
	Host     string
	Port     int
	From     string
	To       string
	Password string
}

func (s Sender) Send(subject, htmlBody string) error {
	if s.From == "" || s.To == "" || s.Password == "" {
		return errors.New("email credentials not configured")
	}

	msg := buildMessage(s.From, s.To, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)

	if err := smtp.SendMail(addr, auth, s.From, []string{s.To}, msg); err != nil {
		return fmt.Errorf("sending digest email: %w", err)
	}

	slog.Info("[EmailSender] digest sent",
		slog.String("to", s.To),
		slog.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// WritePreview saves the rendered digest for a dry run instead of mailing it.
func WritePreview(outputDir, name, htmlBody string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, []byte(htmlBody), 0o644); err != nil {
		return "", fmt.Errorf("writing email preview: %w", err)
	}

	slog.Info("[EmailSender] preview written", slog.String("path", path))
	return path, nil
}
