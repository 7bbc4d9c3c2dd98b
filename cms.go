package preface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// How long a discovered master ref is trusted before re-asking the API root.
const masterRefTTL = 30 * time.Second

// Predicate is one filter condition for a content query. Predicates on the
// same query are conjunctive. Construct them with At, DateAfter, DateBefore.
type Predicate struct {
	expr string
}

// At filters on exact equality of a document field.
func At(field, value string) Predicate {
	return Predicate{expr: fmt.Sprintf("at(%s,%q)", field, value)}
}

// DateAfter filters on a date field being strictly after t.
func DateAfter(field string, t time.Time) Predicate {
	return Predicate{expr: fmt.Sprintf("dateAfter(%s,%s)", field, t.UTC().Format(time.RFC3339))}
}

// DateBefore filters on a date field being strictly before t.
func DateBefore(field string, t time.Time) Predicate {
	return Predicate{expr: fmt.Sprintf("dateBefore(%s,%s)", field, t.UTC().Format(time.RFC3339))}
}

func (p Predicate) String() string {
	return p.expr
}

// Query describes one page-sized content fetch.
type Query struct {
	Type       string      // document type; "" skips the type filter
	Predicates []Predicate // conjunctive filters, ANDed with the type filter
	Fields     []string    // data fields to project; empty returns full documents
	Orderings  []string    // e.g. "document.first_publication_date desc"
	PageSize   int         // results per page; the server clamps its own maximum
	Ref        string      // content ref override (preview token); "" uses the master ref
}

// RawDocument is a CMS document as it arrives off the wire. Data stays raw
// until Normalize shapes it into an Article.
type RawDocument struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	FirstPublicationDate string          `json:"first_publication_date"`
	LastPublicationDate  string          `json:"last_publication_date"`
	Data                 json.RawMessage `json:"data"`
}

type searchResponse struct {
	Results          []RawDocument `json:"results"`
	NextPage         *string       `json:"next_page"`
	TotalResultsSize int           `json:"total_results_size"`
}

type apiRoot struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

// Client queries the CMS content API. It is safe for concurrent use; the
// only mutable state is the cached master ref.
type Client struct {
	endpoint    string
	accessToken string
	http        *http.Client

	mu         sync.Mutex
	masterRef  string
	refFetched time.Time
}

// NewClient creates a Client for the content API at endpoint. accessToken
// may be empty for repositories with open access.
func NewClient(endpoint, accessToken string) *Client {
	return &Client{
		endpoint:    strings.TrimSuffix(endpoint, "/"),
		accessToken: accessToken,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchPage runs q and returns the first page of results plus the opaque
// continuation cursor. Filters are conjunctive; Fields restrict the returned
// data payload; PageSize beyond the server maximum is clamped server-side.
func (c *Client) FetchPage(ctx context.Context, q Query) (Page, error) {
	if q.PageSize <= 0 {
		return Page{}, fmt.Errorf("preface: page size must be positive, got %d", q.PageSize)
	}
	ref, err := c.resolveRef(ctx, q.Ref)
	if err != nil {
		return Page{}, err
	}
	sr, err := c.search(ctx, c.searchURL(q, ref), false)
	if err != nil {
		return Page{}, err
	}
	return toPage(sr), nil
}

// FetchNextPage follows a cursor previously returned in Page.NextCursor.
// The cursor is opaque: the server embeds its own continuation state in it,
// so it is passed through verbatim — but it reaches this method from the
// public query string, so it is only ever followed back to the configured
// content API. A cursor naming any other origin, or one that does not parse
// as a URL, is stale or forged and maps to ErrInvalidCursor. Calls with the
// same cursor are idempotent against unchanged backing data.
func (c *Client) FetchNextPage(ctx context.Context, cursor string) (Page, error) {
	if cursor == "" {
		return Page{}, fmt.Errorf("%w: empty cursor", ErrInvalidCursor)
	}
	if _, err := url.Parse(cursor); err != nil || !strings.HasPrefix(cursor, c.endpoint+"/") {
		return Page{}, fmt.Errorf("%w: cursor does not point at the content API", ErrInvalidCursor)
	}
	sr, err := c.search(ctx, cursor, true)
	if err != nil {
		return Page{}, err
	}
	return toPage(sr), nil
}

// GetBySlug fetches the full document of the given type whose uid matches
// slug, at the given ref override ("" = master).
func (c *Client) GetBySlug(ctx context.Context, contentType, slug, refOverride string) (RawDocument, error) {
	return c.getOne(ctx, Query{
		Type:       contentType,
		Predicates: []Predicate{At("document.uid", slug)},
		PageSize:   1,
		Ref:        refOverride,
	})
}

// GetByID fetches the full document with the given CMS id, any type.
func (c *Client) GetByID(ctx context.Context, id, refOverride string) (RawDocument, error) {
	return c.getOne(ctx, Query{
		Predicates: []Predicate{At("document.id", id)},
		PageSize:   1,
		Ref:        refOverride,
	})
}

// ResolvePreview validates a preview token against the target document by
// fetching it with the token as the content ref. On success it returns the
// route of the previewed document, falling back to the root when the
// document has no slug. Any failure is ErrInvalidToken; no other error ever
// escapes, so the caller can map it straight to a 401.
func (c *Client) ResolvePreview(ctx context.Context, token, documentID string) (string, error) {
	if token == "" || documentID == "" {
		return "", fmt.Errorf("%w: missing token or document id", ErrInvalidToken)
	}
	doc, err := c.GetByID(ctx, documentID, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if doc.UID == "" {
		return "/", nil
	}
	return "/blog/" + doc.UID + "/", nil
}

func (c *Client) getOne(ctx context.Context, q Query) (RawDocument, error) {
	ref, err := c.resolveRef(ctx, q.Ref)
	if err != nil {
		return RawDocument{}, err
	}
	sr, err := c.search(ctx, c.searchURL(q, ref), false)
	if err != nil {
		return RawDocument{}, err
	}
	if len(sr.Results) == 0 {
		return RawDocument{}, ErrNotFound
	}
	return sr.Results[0], nil
}

func (c *Client) searchURL(q Query, ref string) string {
	v := url.Values{}
	if q.Type != "" {
		v.Add("q", At("document.type", q.Type).String())
	}
	for _, p := range q.Predicates {
		v.Add("q", p.String())
	}
	if len(q.Fields) > 0 {
		v.Set("fetch", strings.Join(q.Fields, ","))
	}
	if len(q.Orderings) > 0 {
		v.Set("orderings", "["+strings.Join(q.Orderings, ",")+"]")
	}
	v.Set("page_size", strconv.Itoa(q.PageSize))
	v.Set("ref", ref)
	if c.accessToken != "" {
		v.Set("access_token", c.accessToken)
	}
	return c.endpoint + "/documents/search?" + v.Encode()
}

// search performs one GET against the content API. cursor marks requests
// that follow a continuation URL, where a 400/404 means the cursor went
// stale rather than the upstream being broken.
func (c *Client) search(ctx context.Context, rawURL string, cursor bool) (searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("preface: build search request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case cursor && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound):
		return searchResponse{}, fmt.Errorf("%w: status %d", ErrInvalidCursor, resp.StatusCode)
	default:
		return searchResponse{}, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return searchResponse{}, fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	return sr, nil
}

// resolveRef returns the ref to query at: the override when one is active
// (a preview session), otherwise the cached master ref.
func (c *Client) resolveRef(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.masterRef != "" && time.Since(c.refFetched) < masterRefTTL {
		return c.masterRef, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/", nil)
	if err != nil {
		return "", fmt.Errorf("preface: build ref request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	var root apiRoot
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		return "", fmt.Errorf("%w: decode refs: %v", ErrUpstreamUnavailable, err)
	}
	for _, r := range root.Refs {
		if r.IsMasterRef {
			c.masterRef = r.Ref
			c.refFetched = time.Now()
			return r.Ref, nil
		}
	}
	return "", fmt.Errorf("%w: api root has no master ref", ErrUpstreamUnavailable)
}

func toPage(sr searchResponse) Page {
	items := make([]ArticleSummary, 0, len(sr.Results))
	for _, doc := range sr.Results {
		items = append(items, summarize(doc))
	}
	page := Page{Items: items}
	if sr.NextPage != nil {
		page.NextCursor = *sr.NextPage
	}
	return page
}

// summarize projects a raw document to its listing summary. It is lenient:
// fields the query projected away just stay empty.
func summarize(doc RawDocument) ArticleSummary {
	s := ArticleSummary{
		ID:               doc.ID,
		Slug:             doc.UID,
		FirstPublishedAt: parseTimestamp(doc.FirstPublicationDate),
	}
	if len(doc.Data) > 0 {
		var d struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
			Author   string `json:"author"`
		}
		if err := json.Unmarshal(doc.Data, &d); err == nil {
			s.Title = d.Title
			s.Subtitle = d.Subtitle
			s.Author = d.Author
		}
	}
	return s
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
