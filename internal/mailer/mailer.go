// Package mailer delivers rendered reports over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

// Config holds SMTP connection and addressing settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// SMTPSender sends HTML mail through a single SMTP server using
// STARTTLS and plain authentication.
type SMTPSender struct {
	cfg Config
}

var _ minty.Sender = (*SMTPSender)(nil)

// New creates a sender. It validates addressing up front so a
// misconfigured mailer fails at startup rather than after a full
// pipeline run.
func New(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mailer: host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mailer: from address is required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("mailer: at least one recipient is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers one HTML message to every configured recipient.
func (s *SMTPSender) Send(ctx context.Context, subject string, htmlBody []byte) error {
	msg, err := s.buildMessage(subject, htmlBody)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to SMTP server %s", addr)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(time.Minute))
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to start SMTP session")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return errors.Wrap(err, "failed to negotiate STARTTLS")
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return errors.Wrap(err, "SMTP authentication failed")
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return errors.Wrap(err, "failed to set sender")
	}
	for _, rcpt := range s.cfg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "failed to add recipient %s", rcpt)
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "failed to open message body")
	}
	if _, err := w.Write(msg); err != nil {
		return errors.Wrap(err, "failed to write message body")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to finish message body")
	}

	return errors.Wrap(client.Quit(), "failed to close SMTP session")
}

// buildMessage assembles a multipart/alternative message with a plain
// text fallback and the HTML report.
func (s *SMTPSender) buildMessage(subject string, htmlBody []byte) ([]byte, error) {
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")

	plain, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create text part")
	}
	fmt.Fprintf(plain, "%s\r\n\r\nThis report is best viewed in an HTML capable mail client.\r\n", subject)

	html, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTML part")
	}
	if _, err := html.Write(htmlBody); err != nil {
		return nil, errors.Wrap(err, "failed to write HTML part")
	}

	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize message")
	}
	return []byte(buf.String()), nil
}
