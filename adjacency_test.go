package preface

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestResolveAdjacentMiddleArticle(t *testing.T) {
	f := threeArticleCMS(t)
	resolver := NewResolver(NewClient(f.srv.URL, ""))

	ref := mustTime(t, "2021-02-01T09:00:00Z")
	adj := resolver.ResolveAdjacent(context.Background(), "article", &ref, "")

	require.NotNil(t, adj.Previous)
	require.NotNil(t, adj.Next)
	assert.Equal(t, "doc1", adj.Previous.ID)
	assert.Equal(t, "First Post", adj.Previous.Title)
	assert.Equal(t, "doc3", adj.Next.ID)
	assert.Equal(t, "Third Post", adj.Next.Title)
}

func TestResolveAdjacentIsStrict(t *testing.T) {
	f := threeArticleCMS(t)
	resolver := NewResolver(NewClient(f.srv.URL, ""))

	// Reference shares the oldest article's exact timestamp: nothing is
	// strictly before it, and the article itself is never its own neighbor.
	ref := mustTime(t, "2021-01-01T09:00:00Z")
	adj := resolver.ResolveAdjacent(context.Background(), "article", &ref, "")

	assert.Nil(t, adj.Previous)
	require.NotNil(t, adj.Next)
	assert.Equal(t, "doc2", adj.Next.ID)
}

func TestResolveAdjacentNoReferenceDate(t *testing.T) {
	f := threeArticleCMS(t)
	resolver := NewResolver(NewClient(f.srv.URL, ""))
	resolver.now = func() time.Time { return mustTime(t, "2021-06-01T00:00:00Z") }

	// An unpublished draft has no date; adjacency is computed as if it were
	// published now. Nothing exists after "now", the newest article precedes it.
	adj := resolver.ResolveAdjacent(context.Background(), "article", nil, "")

	assert.Nil(t, adj.Next)
	require.NotNil(t, adj.Previous)
	assert.Equal(t, "doc3", adj.Previous.ID)
}

func TestResolveAdjacentTieBreaksOnID(t *testing.T) {
	f := newFakeCMS(t, []fakeDoc{
		{doc: testDoc("doc1", "first-post", "2021-01-01T09:00:00Z", "First Post")},
		{doc: testDoc("docB", "same-day-b", "2021-02-01T09:00:00Z", "Same Day B")},
		{doc: testDoc("docA", "same-day-a", "2021-02-01T09:00:00Z", "Same Day A")},
	})
	resolver := NewResolver(NewClient(f.srv.URL, ""))

	ref := mustTime(t, "2021-01-01T09:00:00Z")
	adj := resolver.ResolveAdjacent(context.Background(), "article", &ref, "")

	// Equal timestamps resolve by document id: the lowest id wins the
	// "next" slot.
	require.NotNil(t, adj.Next)
	assert.Equal(t, "docA", adj.Next.ID)
}

func TestResolveAdjacentUpstreamFailure(t *testing.T) {
	f := threeArticleCMS(t)
	f.srv.Close()
	resolver := NewResolver(NewClient(f.srv.URL, ""))

	ref := mustTime(t, "2021-02-01T09:00:00Z")
	adj := resolver.ResolveAdjacent(context.Background(), "article", &ref, "")

	// Navigation is a non-critical enhancement: failures degrade to empty.
	assert.Equal(t, Adjacency{}, adj)
}
