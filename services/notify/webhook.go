package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"loungebot/models"
)

// WebhookTransport delivers outbound messages by POSTing them to the
// chat relay. The relay renders options as platform buttons; the core
// never emits platform markup.
type WebhookTransport struct {
	Client       *http.Client
	SendURL      string
	BroadcastURL string
	Secret       string
}

// NewWebhookTransport returns a transport bound to the relay endpoints.
func NewWebhookTransport(sendURL, broadcastURL, secret string) *WebhookTransport {
	return &WebhookTransport{
		Client:       &http.Client{Timeout: 10 * time.Second},
		SendURL:      sendURL,
		BroadcastURL: broadcastURL,
		Secret:       secret,
	}
}

// SendMessage posts a prompt to one chat.
func (t *WebhookTransport) SendMessage(ctx context.Context, chatID int64, text string, options []models.Option) error {
	return t.post(ctx, t.SendURL, models.Prompt{ChatID: chatID, Text: text, Options: options})
}

// SendBroadcast posts text to the shared broadcast channel.
func (t *WebhookTransport) SendBroadcast(ctx context.Context, text string) error {
	return t.post(ctx, t.BroadcastURL, models.Prompt{Text: text})
}

func (t *WebhookTransport) post(ctx context.Context, url string, msg models.Prompt) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.Secret != "" {
		req.Header.Set("X-Relay-Secret", t.Secret)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay rejected message: status %d", resp.StatusCode)
	}
	return nil
}
