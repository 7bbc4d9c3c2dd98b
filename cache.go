package preface

import (
	"context"
	"sync"
	"time"
)

// Page size used when walking the full result set for feeds and sitemaps.
const walkPageSize = 100

var (
	summaryFields = []string{"title", "subtitle", "author"}
	listOrderings = []string{publicationDateField + " desc", "document.id desc"}
)

// pageFetcher is the slice of Client the cache and the feed walk need.
type pageFetcher interface {
	FetchPage(ctx context.Context, q Query) (Page, error)
	FetchNextPage(ctx context.Context, cursor string) (Page, error)
}

// walkAll pages through every summary of the given type at the given ref,
// newest first.
func walkAll(ctx context.Context, client pageFetcher, contentType, ref string) ([]ArticleSummary, error) {
	page, err := client.FetchPage(ctx, Query{
		Type:      contentType,
		Fields:    summaryFields,
		Orderings: listOrderings,
		PageSize:  walkPageSize,
		Ref:       ref,
	})
	if err != nil {
		return nil, err
	}
	items := page.Items
	for page.NextCursor != "" {
		page, err = client.FetchNextPage(ctx, page.NextCursor)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// SummaryCache is an in-memory cache of the full published summary walk,
// used by the feed and sitemap handlers so they don't re-page through the
// CMS on every hit. Preview traffic bypasses it entirely.
type SummaryCache struct {
	mu      sync.RWMutex
	items   []ArticleSummary
	fetched time.Time
	ttl     time.Duration

	client      pageFetcher
	contentType string
}

// NewSummaryCache creates a SummaryCache backed by the given client.
func NewSummaryCache(client pageFetcher, contentType string, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, contentType: contentType, ttl: ttl}
}

func (c *SummaryCache) valid() bool {
	return c.items != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh walk.
func (c *SummaryCache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// All returns the cached summaries, refreshing them first when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *SummaryCache) All(ctx context.Context) ([]ArticleSummary, error) {
	c.mu.RLock()
	if c.valid() {
		items := c.items
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.items, nil
	}
	items, err := walkAll(ctx, c.client, c.contentType, "")
	if err != nil {
		return nil, err
	}
	c.items = items
	c.fetched = time.Now()
	return c.items, nil
}
