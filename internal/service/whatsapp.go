package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// whatsappSender posts template messages to the WhatsApp gateway. Disabled
// (nil) when no gateway is configured.
type whatsappSender struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewWhatsAppSender(baseURL, apiKey string, timeout time.Duration) MessageSender {
	if baseURL == "" {
		return nil
	}
	return &whatsappSender{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type whatsappMessage struct {
	Recipients []string          `json:"recipients"`
	Template   string            `json:"template"`
	Data       map[string]string `json:"data,omitempty"`
}

func (s *whatsappSender) Send(ctx context.Context, recipients []string, template string, data map[string]string) error {
	if len(recipients) == 0 {
		return nil
	}
	body, err := json.Marshal(whatsappMessage{Recipients: recipients, Template: template, Data: data})
	if err != nil {
		return fmt.Errorf("encode whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}
