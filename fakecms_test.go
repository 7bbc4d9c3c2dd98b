package preface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const testMasterRef = "master-ref"

// fakeDoc wraps a document for the fake CMS. Drafts are only visible when
// the query ref is a preview token.
type fakeDoc struct {
	doc   RawDocument
	draft bool
}

// fakeCMS is an httptest-backed stand-in for the content API: ref
// discovery, conjunctive predicates, field projection, ordering, and
// page-numbered continuation URLs handed out as opaque cursors.
type fakeCMS struct {
	t             *testing.T
	srv           *httptest.Server
	docs          []fakeDoc
	previewTokens map[string]bool

	mu          sync.Mutex
	lastRef     string
	lastQuery   map[string][]string
	searchCalls int
}

func newFakeCMS(t *testing.T, docs []fakeDoc) *fakeCMS {
	t.Helper()
	f := &fakeCMS{
		t:             t,
		docs:          docs,
		previewTokens: make(map[string]bool),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCMS) allowToken(token string) {
	f.previewTokens[token] = true
}

func (f *fakeCMS) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"refs":[{"id":"master","ref":%q,"isMasterRef":true}]}`, testMasterRef)
	case "/documents/search":
		f.handleSearch(w, r)
	default:
		http.NotFound(w, r)
	}
}

var (
	reAtPred   = regexp.MustCompile(`^at\(([a-z._]+),"(.*)"\)$`)
	reDatePred = regexp.MustCompile(`^(dateAfter|dateBefore)\(([a-z._]+),(.+)\)$`)
)

func (f *fakeCMS) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := q.Get("ref")
	if ref != testMasterRef && !f.previewTokens[ref] {
		http.Error(w, `{"error":"unknown ref"}`, http.StatusNotFound)
		return
	}
	preview := ref != testMasterRef

	f.mu.Lock()
	f.lastRef = ref
	f.lastQuery = q
	f.searchCalls++
	f.mu.Unlock()

	var matched []RawDocument
	for _, d := range f.docs {
		if d.draft && !preview {
			continue
		}
		if f.matches(d.doc, q["q"]) {
			matched = append(matched, d.doc)
		}
	}

	f.order(matched, q.Get("orderings"))

	if fetch := q.Get("fetch"); fetch != "" {
		for i := range matched {
			matched[i].Data = projectData(matched[i].Data, strings.Split(fetch, ","))
		}
	}

	pageSize, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || pageSize < 1 {
		http.Error(w, `{"error":"bad page_size"}`, http.StatusBadRequest)
		return
	}
	// Servers clamp oversized page sizes; ours caps at 100.
	if pageSize > 100 {
		pageSize = 100
	}

	page := 1
	if p := q.Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil {
			http.Error(w, `{"error":"bad cursor"}`, http.StatusBadRequest)
			return
		}
	}
	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		http.Error(w, `{"error":"bad cursor"}`, http.StatusBadRequest)
		return
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	resp := searchResponse{
		Results:          matched[start:end],
		TotalResultsSize: len(matched),
	}
	if page < totalPages {
		next := q
		next.Set("page", strconv.Itoa(page+1))
		cursor := f.srv.URL + "/documents/search?" + next.Encode()
		resp.NextPage = &cursor
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeCMS) matches(doc RawDocument, preds []string) bool {
	for _, p := range preds {
		if m := reAtPred.FindStringSubmatch(p); m != nil {
			var got string
			switch m[1] {
			case "document.type":
				got = doc.Type
			case "document.uid":
				got = doc.UID
			case "document.id":
				got = doc.ID
			default:
				f.t.Fatalf("fake cms: unsupported at() field %q", m[1])
			}
			if got != m[2] {
				return false
			}
			continue
		}
		if m := reDatePred.FindStringSubmatch(p); m != nil {
			ts := parseTimestamp(doc.FirstPublicationDate)
			if ts == nil {
				return false
			}
			cmp, err := time.Parse(time.RFC3339, m[3])
			if err != nil {
				f.t.Fatalf("fake cms: bad date predicate %q: %v", p, err)
			}
			if m[1] == "dateAfter" && !ts.After(cmp) {
				return false
			}
			if m[1] == "dateBefore" && !ts.Before(cmp) {
				return false
			}
			continue
		}
		f.t.Fatalf("fake cms: unparseable predicate %q", p)
	}
	return true
}

// order sorts by publication date with document id as the secondary key,
// ascending or descending per the first ordering clause.
func (f *fakeCMS) order(docs []RawDocument, orderings string) {
	if orderings == "" {
		return
	}
	desc := strings.Contains(strings.Split(orderings, ",")[0], " desc")
	sort.SliceStable(docs, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if p := parseTimestamp(docs[i].FirstPublicationDate); p != nil {
			ti = *p
		}
		if p := parseTimestamp(docs[j].FirstPublicationDate); p != nil {
			tj = *p
		}
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		if desc {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].ID < docs[j].ID
	})
}

func projectData(data json.RawMessage, fields []string) json.RawMessage {
	if len(data) == 0 {
		return data
	}
	var full map[string]json.RawMessage
	if err := json.Unmarshal(data, &full); err != nil {
		return data
	}
	kept := make(map[string]json.RawMessage)
	for _, f := range fields {
		if v, ok := full[f]; ok {
			kept[f] = v
		}
	}
	out, _ := json.Marshal(kept)
	return out
}

// testDoc builds a publishable raw document for tests.
func testDoc(id, uid, published, title string) RawDocument {
	data, _ := json.Marshal(map[string]interface{}{
		"title":    title,
		"subtitle": "sub of " + title,
		"author":   "Ada Writer",
		"banner":   map[string]string{"url": "https://img.example/" + id + ".jpg"},
		"body": []map[string]interface{}{
			{"heading": "Intro", "rich_text": []map[string]string{{"type": "paragraph", "text": "hello"}}},
		},
	})
	return RawDocument{
		ID:                   id,
		UID:                  uid,
		Type:                 "article",
		FirstPublicationDate: published,
		LastPublicationDate:  published,
		Data:                 data,
	}
}
