package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"towerdefense_backend/internal/domain"
)

// Deliverer ships a batch of events to the collection endpoint.
type Deliverer interface {
	Deliver(events []domain.AnalyticsEvent) error
}

// HTTPDeliverer POSTs batches as {"events": [...]} to a collector URL.
type HTTPDeliverer struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPDeliverer(endpoint string) *HTTPDeliverer {
	return &HTTPDeliverer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *HTTPDeliverer) Deliver(events []domain.AnalyticsEvent) error {
	body, err := json.Marshal(map[string]any{"events": events})
	if err != nil {
		return err
	}
	resp, err := d.Client.Post(d.Endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics collector returned %d", resp.StatusCode)
	}
	return nil
}

// NoopDeliverer discards batches (no collector configured).
type NoopDeliverer struct{}

func (NoopDeliverer) Deliver([]domain.AnalyticsEvent) error { return nil }
