package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

const historyCacheTTL = 5 * time.Minute

// HistoryCache keeps the recent-history slice for a lead in Redis so detail
// views avoid a query per render. All methods are safe on a nil cache or a
// cache built without a client; they degrade to pass-through.
type HistoryCache struct {
	client *redis.Client
}

// NewHistoryCache wraps a redis client, which may be nil.
func NewHistoryCache(client *redis.Client) *HistoryCache {
	return &HistoryCache{client: client}
}

// Get returns cached entries and whether the key was present and readable.
func (c *HistoryCache) Get(ctx context.Context, leadID string) ([]domain.LeadHistory, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, historyKey(leadID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.LeadHistory
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Set stores entries best-effort; cache write failures are ignored.
func (c *HistoryCache) Set(ctx context.Context, leadID string, entries []domain.LeadHistory) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	c.client.Set(ctx, historyKey(leadID), raw, historyCacheTTL)
}

// Invalidate drops the cached slice after a history append or lead delete.
func (c *HistoryCache) Invalidate(ctx context.Context, leadID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, historyKey(leadID))
}

func historyKey(leadID string) string {
	return "lead:history:" + leadID
}
