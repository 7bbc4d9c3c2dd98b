package preface

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CommentEmbedURL returns the script URL for the third-party comment widget,
// or "" when comments are disabled. The widget itself is external; templates
// just drop this into a <script> tag.
func CommentEmbedURL(shortname string) string {
	if shortname == "" {
		return ""
	}
	return "https://" + shortname + ".disqus.com/embed.js"
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for a BlogPosting schema.
func ArticleJsonLD(article Article, cfg SiteConfig) string {
	articleURL := BuildURL(cfg.URL, "blog", article.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    article.Title,
		"description": article.Subtitle,
		"url":         articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if article.FirstPublishedAt != nil {
		data["datePublished"] = article.FirstPublishedAt.Format("2006-01-02")
	}
	if article.LastEditedAt != nil {
		data["dateModified"] = article.LastEditedAt.Format("2006-01-02")
	}
	if article.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  article.Author,
		}
	}
	if article.BannerURL != "" {
		data["image"] = article.BannerURL
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
