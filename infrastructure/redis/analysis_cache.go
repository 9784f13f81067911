package redis

import (
	"context"
	"time"

	"todoai/domain/models"
	"todoai/domain/ports"
)

// AnalysisCache เก็บ AnalysisResult เป็น JSON (key มาจาก service)
type AnalysisCache struct {
	client *Client
}

var (
	_ ports.AnalysisCache       = (*AnalysisCache)(nil)
	_ ports.DeadlineNotifyGuard = (*NotifyGuard)(nil)
)

func NewAnalysisCache(client *Client) *AnalysisCache {
	return &AnalysisCache{client: client}
}

func (c *AnalysisCache) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	found, err := c.client.GetJSON(ctx, key, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (c *AnalysisCache) Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	return c.client.SetJSON(ctx, key, result, ttl)
}

// NotifyGuard - dedupe ข้าม instances ด้วย SET NX
type NotifyGuard struct {
	client *Client
}

func NewNotifyGuard(client *Client) *NotifyGuard {
	return &NotifyGuard{client: client}
}

func (g *NotifyGuard) ShouldNotify(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, key, "1", ttl)
}
