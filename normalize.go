package preface

import (
	"encoding/json"
	"fmt"
)

type rawData struct {
	Title    *string `json:"title"`
	Subtitle string  `json:"subtitle"`
	Author   *string `json:"author"`
	Banner   struct {
		URL string `json:"url"`
	} `json:"banner"`
	Body []rawSection `json:"body"`
}

type rawSection struct {
	Heading  string            `json:"heading"`
	RichText []json.RawMessage `json:"rich_text"`
}

// Normalize shapes a raw CMS document into an Article. It is a pure
// transform: the returned Article shares no memory with doc, so the caller
// may keep mutating the raw payload (or the decode buffer backing it)
// without corrupting the result. Required fields are id, title, author and
// body; anything absent or mis-shaped yields ErrMalformedDocument.
func Normalize(doc RawDocument) (Article, error) {
	if doc.ID == "" {
		return Article{}, fmt.Errorf("%w: missing id", ErrMalformedDocument)
	}
	if len(doc.Data) == 0 {
		return Article{}, fmt.Errorf("%w: missing data payload", ErrMalformedDocument)
	}
	var d rawData
	if err := json.Unmarshal(doc.Data, &d); err != nil {
		return Article{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if d.Title == nil || *d.Title == "" {
		return Article{}, fmt.Errorf("%w: missing title", ErrMalformedDocument)
	}
	if d.Author == nil || *d.Author == "" {
		return Article{}, fmt.Errorf("%w: missing author", ErrMalformedDocument)
	}
	if d.Body == nil {
		return Article{}, fmt.Errorf("%w: missing body", ErrMalformedDocument)
	}

	first := parseTimestamp(doc.FirstPublicationDate)
	last := parseTimestamp(doc.LastPublicationDate)
	if first != nil && last != nil && last.Before(*first) {
		return Article{}, fmt.Errorf("%w: edit timestamp precedes publication", ErrMalformedDocument)
	}

	// Each section gets its own freshly allocated block slice. The raw
	// messages otherwise alias the decode buffer, and a shared backing
	// array across sections is exactly the aliasing bug this guards.
	body := make([]Section, len(d.Body))
	for i, s := range d.Body {
		blocks := make([]json.RawMessage, len(s.RichText))
		for j, b := range s.RichText {
			blocks[j] = append(json.RawMessage(nil), b...)
		}
		body[i] = Section{Heading: s.Heading, RichText: blocks}
	}

	return Article{
		ID:               doc.ID,
		Slug:             doc.UID,
		FirstPublishedAt: first,
		LastEditedAt:     last,
		Title:            *d.Title,
		Subtitle:         d.Subtitle,
		Author:           *d.Author,
		BannerURL:        d.Banner.URL,
		Body:             body,
	}, nil
}
