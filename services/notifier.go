package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// Notifier forwards discovered broker batches to the downstream automation
// webhook. Delivery failures never affect the in-memory result set.
type Notifier struct {
	client *resty.Client
	url    string
}

func NewNotifier(url string) *Notifier {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Notifier{client: client, url: url}
}

// Send posts one region's batch. A nil receiver, missing URL or empty batch
// is a no-op.
func (n *Notifier) Send(ctx context.Context, region string, brokers []models.BrokerProfile) error {
	if n == nil || n.url == "" || len(brokers) == 0 {
		return nil
	}

	payload := models.RegionBatch{
		Region:  region,
		Count:   len(brokers),
		Brokers: brokers,
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
