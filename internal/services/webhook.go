package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/monitoring"
)

// WebhookNotifier delivers the flattened application summary to a
// user-supplied URL. Delivery is attempted once.
type WebhookNotifier interface {
	Notify(ctx context.Context, url string, payload models.WebhookPayload) error
}

// DefaultWebhookTimeout bounds a single delivery attempt.
const DefaultWebhookTimeout = 10 * time.Second

type webhookNotifier struct {
	client *http.Client
}

func NewWebhookNotifier(client *http.Client) WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: DefaultWebhookTimeout}
	}
	return &webhookNotifier{client: client}
}

func (w *webhookNotifier) Notify(ctx context.Context, url string, payload models.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		monitoring.WebhookDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		monitoring.WebhookDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		monitoring.WebhookDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	log.Info().Str("url", url).Int("status", resp.StatusCode).Msg("Webhook delivered")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.WebhookDeliveries.WithLabelValues("rejected").Inc()
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	monitoring.WebhookDeliveries.WithLabelValues("success").Inc()
	return nil
}
