package textmagic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"workshop-feedback/pkg/utils"
)

const defaultBaseURL = "https://rest.textmagic.com/api/v2"

// Client defines the interface for sending SMS through the TextMagic API
type Client interface {
	SendSMS(phone, text string) error
}

type clientImpl struct {
	log      *slog.Logger
	apiKey   string
	username string
	baseURL  string
	http     *http.Client
}

// NewClient creates a new TextMagic client
func NewClient(log *slog.Logger, username, apiKey string) Client {
	return NewClientWithBaseURL(log, username, apiKey, defaultBaseURL)
}

func NewClientWithBaseURL(log *slog.Logger, username, apiKey, baseURL string) Client {
	return &clientImpl{
		log:      log,
		apiKey:   apiKey,
		username: username,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
	}
}

// normalizePhone strips formatting characters and the leading plus sign,
// which TextMagic does not accept in the phones field.
func normalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	return strings.TrimPrefix(phone, "+")
}

func (c *clientImpl) SendSMS(phone, text string) error {
	sendURL := fmt.Sprintf("%s/messages", c.baseURL)

	payload := map[string]interface{}{
		"phones": normalizePhone(phone),
		"text":   text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, sendURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error from TextMagic API: %s", string(body))
	}

	var sendResponse struct {
		ID        int    `json:"id"`
		MessageID int    `json:"messageId"`
		Href      string `json:"href"`
	}
	if err := json.Unmarshal(body, &sendResponse); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}

	c.log.Info("sent sms via textmagic",
		slog.String("to_hash", utils.HashString(phone)),
		slog.Int("message_id", sendResponse.MessageID),
	)
	return nil
}
