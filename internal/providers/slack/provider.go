package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Provider interface {
	PostMessage(ctx context.Context, webhookURL string, text string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) PostMessage(ctx context.Context, webhookURL string, text string) error {
	return nil
}

// WebhookProvider posts to Slack incoming webhooks.
type WebhookProvider struct {
	client *http.Client
}

func NewWebhookProvider(timeout time.Duration) *WebhookProvider {
	return &WebhookProvider{
		client: &http.Client{Timeout: timeout},
	}
}

func (p *WebhookProvider) PostMessage(ctx context.Context, webhookURL string, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}
