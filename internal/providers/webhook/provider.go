package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Provider interface {
	Deliver(ctx context.Context, endpoint string, secret string, payload []byte) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Deliver(ctx context.Context, endpoint string, secret string, payload []byte) error {
	return nil
}

// HTTPProvider posts JSON payloads to subscriber endpoints, signing the
// body with the endpoint secret when one is set.
type HTTPProvider struct {
	client *http.Client
}

func NewHTTPProvider(timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Deliver(ctx context.Context, endpoint string, secret string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Signature-256", sign(secret, payload))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
