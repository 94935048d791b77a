// Package mailer sends plain text messages with an optional PDF attachment
// through the configured mail exchanger.
package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"ari/moneyworks-cli/internal/config"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/mwerror"
)

// DefaultAttachmentName is used when Send is given an attachment without a name.
const DefaultAttachmentName = "document.pdf"

const (
	defaultSMTPPort = "25"
	lineLength      = 76
)

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers messages through a single MX host.
type Mailer struct {
	addr string
	from string
	send SendFunc
	now  func() time.Time
	log  logging.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithSendFunc replaces smtp.SendMail, mainly for tests.
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		if fn != nil {
			m.send = fn
		}
	}
}

// WithLogger sets the logger used for delivery messages.
func WithLogger(l logging.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock overrides the Date header source.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Mailer. The MX host may carry an explicit port, port 25 is
// assumed otherwise.
func New(cfg config.Mail, opts ...Option) (*Mailer, error) {
	if cfg.MX == "" {
		return nil, &mwerror.ConfigError{Option: "mail.MX"}
	}
	if cfg.SendFrom == "" {
		return nil, &mwerror.ConfigError{Option: "mail.SEND_FROM"}
	}

	addr := cfg.MX
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultSMTPPort)
	}

	m := &Mailer{
		addr: addr,
		from: cfg.SendFrom,
		send: smtp.SendMail,
		now:  time.Now,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Addr returns the host:port messages are delivered to.
func (m *Mailer) Addr() string {
	return m.addr
}

// Send delivers a message to the recipients. A nil or empty attachment sends
// a plain text message.
func (m *Mailer) Send(to []string, subject, body string, attachment []byte, attachmentName string) error {
	if len(to) == 0 {
		return &mwerror.InvalidArgumentError{Key: "to", Reason: "at least one recipient is required"}
	}

	msg, err := BuildMessage(m.from, to, subject, body, attachment, attachmentName, m.now())
	if err != nil {
		return err
	}

	m.log.Info("Sending mail",
		logging.F(logging.FieldRecipient, strings.Join(to, ", ")),
		logging.F(logging.FieldBytes, len(msg)))

	if err := m.send(m.addr, nil, m.from, to, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", m.addr, err)
	}
	return nil
}

// BuildMessage assembles an RFC 5322 message. With an attachment the message
// is multipart/mixed with a text part followed by a base64 application/pdf part.
// Non-ASCII subjects are RFC 2047 encoded; header values containing line
// breaks are rejected.
func BuildMessage(from string, to []string, subject, body string, attachment []byte, attachmentName string, date time.Time) ([]byte, error) {
	headers := []struct{ key, value string }{
		{"from", from},
		{"to", strings.Join(to, ", ")},
		{"subject", subject},
		{"attachment name", attachmentName},
	}
	for _, h := range headers {
		if strings.ContainsAny(h.value, "\r\n") {
			return nil, &mwerror.InvalidArgumentError{Key: h.key, Reason: "must not contain line breaks"}
		}
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(attachment) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(body)
		return buf.Bytes(), nil
	}

	if attachmentName == "" {
		attachmentName = DefaultAttachmentName
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	filePart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("application/pdf", map[string]string{"name": attachmentName})},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": attachmentName})},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > lineLength {
		if _, err := fmt.Fprintf(filePart, "%s\r\n", encoded[:lineLength]); err != nil {
			return nil, err
		}
		encoded = encoded[lineLength:]
	}
	if _, err := fmt.Fprintf(filePart, "%s\r\n", encoded); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
