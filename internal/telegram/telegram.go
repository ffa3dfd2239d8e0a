// Package telegram delivers digest messages through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"newsbrief/internal/news"
)

const (
	apiBaseURL     = "https://api.telegram.org"
	maxRetries     = 3
	requestTimeout = 30 * time.Second
)

// Client sends messages to one chat. Delivery failures are retried with
// exponential backoff and the final error is returned to the caller, never
// swallowed.
type Client struct {
	token       string
	chatID      string
	baseURL     string
	backoffUnit time.Duration
	httpClient  *http.Client
	logger      zerolog.Logger
}

func NewClient(token, chatID string, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}
	return &Client{
		token:       token,
		chatID:      chatID,
		baseURL:     apiBaseURL,
		backoffUnit: time.Second,
		httpClient:  &http.Client{Timeout: requestTimeout},
		logger:      logger,
	}, nil
}

// SendDigest formats and delivers a digest.
func (c *Client) SendDigest(ctx context.Context, digest *news.Digest) error {
	if digest == nil {
		return fmt.Errorf("digest is nil")
	}
	return c.send(ctx, FormatDigest(digest))
}

func (c *Client) send(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.sendOnce(ctx, text)
		if lastErr == nil {
			c.logger.Info().Int("attempt", attempt).Msg("digest delivered to telegram")
			return nil
		}

		c.logger.Warn().Err(lastErr).Int("attempt", attempt).Int("max", maxRetries).Msg("telegram delivery failed")
		if attempt < maxRetries {
			backoff := time.Duration(1<<attempt) * c.backoffUnit
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("telegram delivery failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, text string) error {
	payload := map[string]any{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// FormatDigest renders the message body: generation date, region when the
// batch shares one, then the summary.
func FormatDigest(digest *news.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Date Generated:* %s\n", digest.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if digest.Region != "" {
		fmt.Fprintf(&b, "*Region:* %s\n", digest.Region)
	}
	b.WriteString("*Summary:*\n")
	b.WriteString(digest.Summary)
	return b.String()
}
