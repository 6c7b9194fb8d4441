package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morning-brief/internal/domain/entity"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>First headline</title>
      <link>https://example.com/1</link>
      <description>First summary</description>
    </item>
    <item>
      <title>Second headline</title>
      <link>https://example.com/2</link>
    </item>
    <item>
      <title>Third headline</title>
      <link>https://example.com/3</link>
      <description>Third summary</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSSource_Fetch(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	src := NewRSSSource("Test Feed", srv.URL, srv.Client())

	items, err := src.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Native feed order is preserved and every item carries the source label.
	assert.Equal(t, "First headline", items[0].Title)
	assert.Equal(t, "Second headline", items[1].Title)
	assert.Equal(t, "Third headline", items[2].Title)
	for _, it := range items {
		assert.Equal(t, "Test Feed", it.Source)
	}
}

func TestRSSSource_Fetch_Limit(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	src := NewRSSSource("Test Feed", srv.URL, srv.Client())

	items, err := src.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First headline", items[0].Title)
	assert.Equal(t, "Second headline", items[1].Title)
}

func TestRSSSource_Fetch_SummaryFallsBackToTitle(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, testFeed)
	src := NewRSSSource("Test Feed", srv.URL, srv.Client())

	items, err := src.Fetch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Second headline", items[1].Summary)
	assert.Equal(t, "First summary", items[0].Summary)
}

func TestRSSSource_Fetch_ServerError(t *testing.T) {
	srv := newFeedServer(t, http.StatusInternalServerError, "nope")
	src := NewRSSSource("Broken Feed", srv.URL, srv.Client())

	items, err := src.Fetch(context.Background(), 10)
	require.Error(t, err)
	assert.Nil(t, items)

	var srcErr *entity.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "Broken Feed", srcErr.Source)
}

func TestRSSSource_Name(t *testing.T) {
	src := NewRSSSource("BBC", "http://feeds.bbci.co.uk/news/rss.xml", http.DefaultClient)
	assert.Equal(t, "BBC", src.Name())
}
