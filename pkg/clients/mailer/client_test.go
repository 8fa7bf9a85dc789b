package mailer

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-feedback/pkg/logger"
)

func TestSend_BuildsEmail(t *testing.T) {
	var (
		sent *email.Email
		addr string
	)
	c := NewClient(logger.Discard(), "Workshop Team", "team@example.com", "pw", "smtp.gmail.com", 587).(*smtpClient)
	c.send = func(e *email.Email, a string, _ smtp.Auth) error {
		sent = e
		addr = a
		return nil
	}

	err := c.Send(Message{
		To:      "asha@example.com",
		Subject: "Your OTP for Workshop Feedback System",
		Text:    "Your OTP is 482193.",
		HTML:    "<p>Your OTP is <strong>482193</strong>.</p>",
	})

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.gmail.com:587", addr)
	assert.Equal(t, []string{"asha@example.com"}, sent.To)
	assert.Equal(t, "Workshop Team <team@example.com>", sent.From)
	assert.Contains(t, string(sent.HTML), "482193")
	assert.Contains(t, string(sent.Text), "482193")
}

func TestSend_WrapsTransportError(t *testing.T) {
	c := NewClient(logger.Discard(), "Workshop Team", "team@example.com", "pw", "smtp.gmail.com", 587).(*smtpClient)
	boom := errors.New("535 authentication failed")
	c.send = func(*email.Email, string, smtp.Auth) error { return boom }

	err := c.Send(Message{To: "asha@example.com", Subject: "s"})

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "mailer.Send")
}
