package services

import (
	"context"
	"fmt"
	"time"

	"workshop-feedback/pkg/clients/mailer"
)

// SMSClient is implemented by both the Twilio and the TextMagic clients.
type SMSClient interface {
	SendSMS(phone, body string) error
}

// MailClient sends one email.
type MailClient interface {
	Send(msg mailer.Message) error
}

type SMSCodeSender struct {
	sms SMSClient
}

func NewSMSCodeSender(sms SMSClient) *SMSCodeSender {
	return &SMSCodeSender{sms: sms}
}

func (s *SMSCodeSender) SendCode(_ context.Context, phone, code string, ttl time.Duration) error {
	body := fmt.Sprintf("Your OTP is %s. It is valid for %s.", code, humanMinutes(ttl))
	return s.sms.SendSMS(phone, body)
}

type EmailCodeSender struct {
	mail MailClient
}

func NewEmailCodeSender(mail MailClient) *EmailCodeSender {
	return &EmailCodeSender{mail: mail}
}

func (s *EmailCodeSender) SendCode(_ context.Context, email, code string, ttl time.Duration) error {
	validity := humanMinutes(ttl)
	return s.mail.Send(mailer.Message{
		To:      email,
		Subject: "Your OTP for Workshop Feedback System",
		Text:    fmt.Sprintf("Your OTP is %s. It is valid for %s.", code, validity),
		HTML:    fmt.Sprintf("<p>Your OTP is <strong>%s</strong>. It is valid for %s.</p>", code, validity),
	})
}

func humanMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
