// Command preface runs a blog front-end against a headless CMS repository.
// All site branding and CMS coordinates come from environment variables
// (or a .env file in the working directory).
package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/a-h/templ"
	"github.com/joho/godotenv"

	"github.com/eviken/preface"
)

func main() {
	_ = godotenv.Load()

	cfg := preface.SiteConfig{
		Name:              preface.EnvOr("SITE_NAME", "Blog"),
		URL:               preface.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:       os.Getenv("SITE_DESCRIPTION"),
		Author:            os.Getenv("SITE_AUTHOR"),
		Addr:              preface.EnvOr("ADDR", ":3000"),
		APIEndpoint:       preface.MustEnv("CMS_API_ENDPOINT"),
		AccessToken:       os.Getenv("CMS_ACCESS_TOKEN"),
		ContentType:       preface.EnvOr("CMS_CONTENT_TYPE", "article"),
		PageSize:          envInt("PAGE_SIZE", 10),
		Locale:            preface.EnvOr("SITE_LOCALE", "en"),
		CommentsShortname: os.Getenv("COMMENTS_SHORTNAME"),
		SessionSecret:     preface.MustEnv("SESSION_SECRET"),
		CookieSecure:      os.Getenv("COOKIE_SECURE") == "true",
	}

	app := preface.New(cfg, basicViews(cfg))
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// basicViews returns a plain-HTML rendition of every page. Real deployments
// replace these with their own templ templates; these exist so the binary
// is usable out of the box.
func basicViews(cfg preface.SiteConfig) preface.ViewFuncs {
	listItems := func(w io.Writer, page preface.Page) {
		for _, s := range page.Items {
			fmt.Fprintf(w, `<li><a href="/blog/%s/">%s</a>`, html.EscapeString(s.Slug), html.EscapeString(s.Title))
			if s.Subtitle != "" {
				fmt.Fprintf(w, ` — %s`, html.EscapeString(s.Subtitle))
			}
			io.WriteString(w, "</li>\n")
		}
		if page.NextCursor != "" {
			fmt.Fprintf(w, `<li><a href="/?cursor=%s">Load more</a></li>`+"\n", html.EscapeString(page.NextCursor))
		}
	}

	return preface.ViewFuncs{
		Home: func(page preface.Page) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1><ul>\n",
					html.EscapeString(cfg.Name), html.EscapeString(cfg.Name))
				listItems(w, page)
				_, err := io.WriteString(w, "</ul></body></html>")
				return err
			})
		},
		ArticleListPartial: func(page preface.Page) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				listItems(w, page)
				return nil
			})
		},
		Article: func(page preface.ArticlePage) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				a := page.Article
				fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><article><h1>%s</h1>\n",
					html.EscapeString(a.Title), html.EscapeString(a.Title))
				if page.PublishedLabel != "" {
					fmt.Fprintf(w, "<p>%s — %s</p>\n", html.EscapeString(page.PublishedLabel), html.EscapeString(a.Author))
				}
				if page.EditedLabel != "" {
					fmt.Fprintf(w, "<p><em>%s</em></p>\n", html.EscapeString(page.EditedLabel))
				}
				for _, sec := range a.Body {
					fmt.Fprintf(w, "<h2>%s</h2>\n", html.EscapeString(sec.Heading))
				}
				if prev := page.Adjacent.Previous; prev != nil {
					fmt.Fprintf(w, `<a href="/blog/%s/">&larr; %s</a>`+"\n", html.EscapeString(prev.Slug), html.EscapeString(prev.Title))
				}
				if next := page.Adjacent.Next; next != nil {
					fmt.Fprintf(w, `<a href="/blog/%s/">%s &rarr;</a>`+"\n", html.EscapeString(next.Slug), html.EscapeString(next.Title))
				}
				if embed := preface.CommentEmbedURL(cfg.CommentsShortname); embed != "" {
					fmt.Fprintf(w, `<div id="disqus_thread"></div><script src="%s" async></script>`+"\n", embed)
				}
				_, err := io.WriteString(w, "</article></body></html>")
				return err
			})
		},
		NotFound: func() templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<!doctype html><html><body><h1>Page not found</h1></body></html>")
				return err
			})
		},
		ServerError: func() templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<!doctype html><html><body><h1>Something went wrong</h1></body></html>")
				return err
			})
		},
	}
}
