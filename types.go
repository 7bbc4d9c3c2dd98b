package preface

import (
	"encoding/json"
	"time"
)

// Article is the normalized view model for a single post. It is built once
// per fetch from a raw CMS document and never mutated afterwards.
type Article struct {
	ID               string
	Slug             string
	FirstPublishedAt *time.Time // nil for unpublished drafts
	LastEditedAt     *time.Time
	Title            string
	Subtitle         string
	Author           string
	BannerURL        string
	Body             []Section
}

// Section is one heading plus its rich-text blocks. The blocks are kept
// opaque — templates decide how to render them.
type Section struct {
	Heading  string
	RichText []json.RawMessage
}

// ArticleSummary is the listing projection of an Article: just enough to
// render an index entry and a link.
type ArticleSummary struct {
	ID               string
	Slug             string
	FirstPublishedAt *time.Time
	Title            string
	Subtitle         string
	Author           string
}

// Page is one page of listing results plus the continuation cursor.
// NextCursor is an opaque URL minted by the CMS; it is empty exactly when
// the result set is exhausted, and must be passed back verbatim.
type Page struct {
	Items      []ArticleSummary
	NextCursor string
}

// AdjacentArticle is the minimal reference needed to render a prev/next link.
type AdjacentArticle struct {
	ID    string
	Slug  string
	Title string
}

// Adjacency holds the neighbors of one article ordered by publication date.
// Either side is nil when no such neighbor exists.
type Adjacency struct {
	Previous *AdjacentArticle
	Next     *AdjacentArticle
}

// ArticlePage bundles everything the detail template needs.
type ArticlePage struct {
	Article        Article
	Adjacent       Adjacency
	PublishedLabel string // formatted per the site locale, empty for drafts
	EditedLabel    string // empty when never edited after publication
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
