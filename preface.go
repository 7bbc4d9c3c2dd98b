// Package preface is a blog front-end for a headless CMS, built with Go,
// Echo, and templ. The CMS owns authoring, assets, and publish state;
// preface fetches documents over the content query API, shapes them into
// view models, and renders listing, detail, and preview-mode pages.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// preface handles the content fetching, pagination, prev/next resolution,
// preview sessions, middleware, feed, and sitemap.
package preface

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home               func(page Page) templ.Component
	ArticleListPartial func(page Page) templ.Component
	Article            func(page ArticlePage) templ.Component
	NotFound           func() templ.Component
	ServerError        func() templ.Component
}

// App is the central preface application. It wires together the CMS client,
// adjacency resolver, summary cache, handlers, middleware, and
// user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Client   *Client
	Resolver *Resolver
	Cache    *SummaryCache
	Dates    *DateFormatter
	Views    ViewFuncs

	previewLimiter *PreviewLimiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new preface App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// setup validates config and wires the client, resolver, cache, limiter,
// middleware, and routes. Split from Start so tests can drive the Echo
// instance without binding a listener.
func (a *App) setup() error {
	if a.Config.APIEndpoint == "" {
		return fmt.Errorf("preface: APIEndpoint is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("preface: SessionSecret is required")
	}

	a.Client = NewClient(a.Config.APIEndpoint, a.Config.AccessToken)
	a.Resolver = NewResolver(a.Client)
	a.Cache = NewSummaryCache(a.Client, a.Config.ContentType, a.Config.SummaryCacheTTL)
	a.Dates = NewDateFormatter(a.Config.Locale)
	a.previewLimiter = NewPreviewLimiter(10, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start wires the application and starts the server.
func (a *App) Start() error {
	if err := a.setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handleArticle)

	// Preview routes
	e.GET("/preview", a.handlePreview)
	e.GET("/preview/exit", a.handleExitPreview)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
// This is a convenience function for use in main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("preface: required environment variable %s is not set", key)
	}
	return v
}
