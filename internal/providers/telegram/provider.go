package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Provider interface {
	SendMessage(ctx context.Context, botToken string, chatID string, text string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) SendMessage(ctx context.Context, botToken string, chatID string, text string) error {
	return nil
}

// BotProvider talks to the Telegram Bot API sendMessage endpoint.
type BotProvider struct {
	apiBase string
	client  *http.Client
}

func NewBotProvider(apiBase string, timeout time.Duration) *BotProvider {
	return &BotProvider{
		apiBase: strings.TrimRight(apiBase, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *BotProvider) SendMessage(ctx context.Context, botToken string, chatID string, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", p.apiBase, botToken)

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram api returned %d", resp.StatusCode)
	}

	var out struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<10)).Decode(&out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("telegram api: %s", out.Description)
	}
	return nil
}
