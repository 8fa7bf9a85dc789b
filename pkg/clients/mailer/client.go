package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"

	"github.com/jordan-wright/email"

	"workshop-feedback/pkg/utils"
)

// Message is a single outbound email with both a plain-text and an HTML part.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Client defines the interface for sending transactional email
type Client interface {
	Send(msg Message) error
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

type smtpClient struct {
	log      *slog.Logger
	name     string
	address  string
	password string
	host     string
	port     int
	send     sendFunc
}

// NewClient creates an SMTP client that authenticates as address (for Gmail,
// an app password).
func NewClient(log *slog.Logger, name, address, password, host string, port int) Client {
	return &smtpClient{
		log:      log,
		name:     name,
		address:  address,
		password: password,
		host:     host,
		port:     port,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (c *smtpClient) Send(msg Message) error {
	const op = "mailer.Send"

	e := &email.Email{
		To:      []string{msg.To},
		From:    fmt.Sprintf("%s <%s>", c.name, c.address),
		Subject: msg.Subject,
		Text:    []byte(msg.Text),
		HTML:    []byte(msg.HTML),
		Headers: textproto.MIMEHeader{},
	}

	auth := smtp.PlainAuth("", c.address, c.password, c.host)
	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	if err := c.send(e, addr, auth); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("email sent",
		slog.String("op", op),
		slog.String("to_hash", utils.HashString(msg.To)),
		slog.String("subject", msg.Subject),
	)
	return nil
}
