package shortio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const defaultURL = "https://api.short.io/links"

// Client defines the interface for interacting with Short.io API
type Client interface {
	CreateShortLink(ctx context.Context, originalURL string) (string, error)
}

type clientImpl struct {
	log    *slog.Logger
	apiKey string
	domain string
	url    string
	http   *http.Client
}

// NewClient creates a new Short.io client
func NewClient(log *slog.Logger, apiKey, domain string) Client {
	return NewClientWithURL(log, apiKey, domain, defaultURL)
}

func NewClientWithURL(log *slog.Logger, apiKey, domain, url string) Client {
	return &clientImpl{
		log:    log,
		apiKey: apiKey,
		domain: domain,
		url:    url,
		http:   &http.Client{},
	}
}

func (c *clientImpl) CreateShortLink(ctx context.Context, originalURL string) (string, error) {
	payload := map[string]interface{}{
		"originalURL": originalURL,
		"domain":      c.domain,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error creating short link: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("error from Short.io API: %s", string(body))
	}

	var response struct {
		ShortURL string `json:"shortURL"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	c.log.Debug("created short link", slog.String("short_url", response.ShortURL))
	return response.ShortURL, nil
}
