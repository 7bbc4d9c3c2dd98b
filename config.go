package preface

import "time"

// SiteConfig holds all configuration for a preface site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Default author name for JSON-LD

	Addr string // Listen address (default ":3000")

	APIEndpoint string // Required: base URL of the CMS content API
	AccessToken string // Optional CMS access token, appended to every query
	ContentType string // CMS document type for posts (default "article")
	PageSize    int    // Listing page size (default 10)

	Locale string // BCP 47 tag for user-visible dates (default "en")

	CommentsShortname string // Third-party comment widget site id; empty disables the embed

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	SummaryCacheTTL time.Duration // Feed/sitemap summary cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentType == "" {
		c.ContentType = "article"
	}
	// The query contract requires a positive page size; a misconfigured
	// negative value would otherwise fail every listing fetch.
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.SummaryCacheTTL == 0 {
		c.SummaryCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
