package preface

import (
	"context"
	"sync"
	"time"
)

const publicationDateField = "document.first_publication_date"

// Resolver finds the immediately-previous and immediately-next article
// around a reference publication date.
type Resolver struct {
	client *Client
	now    func() time.Time
}

// NewResolver creates a Resolver backed by the given client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client, now: time.Now}
}

// ResolveAdjacent returns the neighbors of an article published at ref,
// querying one title-only result on each side. A nil ref (an unpublished
// draft being previewed) is treated as "published now", which normally
// leaves Next empty. The two queries run concurrently.
//
// Comparisons are strict, so articles sharing the exact reference timestamp
// are excluded; among equal-timestamp candidates the secondary ordering on
// document id makes the pick deterministic (next takes the lowest id
// strictly after, previous the highest id strictly before).
//
// Adjacency is a non-critical enhancement: if either side fails upstream
// the whole result degrades to empty rather than surfacing an error, so the
// page still renders.
func (r *Resolver) ResolveAdjacent(ctx context.Context, contentType string, ref *time.Time, refOverride string) Adjacency {
	at := r.now()
	if ref != nil {
		at = *ref
	}

	var (
		wg         sync.WaitGroup
		next, prev *AdjacentArticle
		nextErr    error
		prevErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		next, nextErr = r.neighbor(ctx, contentType, DateAfter(publicationDateField, at),
			[]string{publicationDateField + " asc", "document.id asc"}, refOverride)
	}()
	go func() {
		defer wg.Done()
		prev, prevErr = r.neighbor(ctx, contentType, DateBefore(publicationDateField, at),
			[]string{publicationDateField + " desc", "document.id desc"}, refOverride)
	}()
	wg.Wait()

	if nextErr != nil || prevErr != nil {
		return Adjacency{}
	}
	return Adjacency{Previous: prev, Next: next}
}

func (r *Resolver) neighbor(ctx context.Context, contentType string, p Predicate, orderings []string, refOverride string) (*AdjacentArticle, error) {
	page, err := r.client.FetchPage(ctx, Query{
		Type:       contentType,
		Predicates: []Predicate{p},
		Fields:     []string{"title"},
		Orderings:  orderings,
		PageSize:   1,
		Ref:        refOverride,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	it := page.Items[0]
	return &AdjacentArticle{ID: it.ID, Slug: it.Slug, Title: it.Title}, nil
}
