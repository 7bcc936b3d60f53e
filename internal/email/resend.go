// Package email sends transactional email through the Resend API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// Sender delivers a single email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Client struct {
	apiKey      string
	fromAddress string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Resend email client
func NewClient(cfg config.EmailConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.ResendAPIKey,
		fromAddress: cfg.FromAddress,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers the message, returning an error on any non-2xx response.
func (c *Client) Send(ctx context.Context, msg Message) error {
	reqBody := sendRequest{
		From:    c.fromAddress,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
