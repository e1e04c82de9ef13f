package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
)

// TLS modes for SMTPSender.
const (
	TLSImplicit = "tls"      // TLS from the first byte, usually port 465
	TLSStart    = "starttls" // plain connection upgraded with STARTTLS
)

// SMTPSender sends mail through an SMTP relay with mailyak.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	TLSMode  string
}

func (s SMTPSender) addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s SMTPSender) auth() smtp.Auth {
	if s.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", s.Username, s.Password, s.Host)
}

func (s SMTPSender) client() (*mailyak.MailYak, error) {
	switch s.TLSMode {
	case TLSImplicit, "":
		return mailyak.NewWithTLS(s.addr(), s.auth(), &tls.Config{ServerName: s.Host})
	case TLSStart:
		return mailyak.New(s.addr(), s.auth()), nil
	default:
		return nil, fmt.Errorf("unknown tls mode %q", s.TLSMode)
	}
}

// Send delivers msg. mailyak has no context support, so ctx is only
// checked before dialing.
func (s SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	mail, err := s.client()
	if err != nil {
		return err
	}
	mail.From(msg.From)
	mail.To(msg.To...)
	mail.Subject(msg.Subject)
	mail.Plain().Set(msg.Body)

	if err := mail.Send(); err != nil {
		return fmt.Errorf("smtp %s: %w", s.addr(), err)
	}
	return nil
}
