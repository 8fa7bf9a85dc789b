package twilio

import (
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"workshop-feedback/pkg/utils"
)

// Client defines the interface for sending SMS through Twilio
type Client interface {
	SendSMS(phoneNumber, body string) error
}

// messageCreator is the part of the Twilio REST API the client uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type clientImpl struct {
	log  *slog.Logger
	api  messageCreator
	from string
}

// NewClient creates a new Twilio client
func NewClient(log *slog.Logger, accountSid, authToken, from string) Client {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &clientImpl{
		log:  log,
		api:  client.Api,
		from: from,
	}
}

func (c *clientImpl) SendSMS(phoneNumber, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(phoneNumber)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("error sending sms: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	c.log.Info("sent sms via twilio",
		slog.String("to_hash", utils.HashString(phoneNumber)),
		slog.String("sid", sid),
	)
	return nil
}
