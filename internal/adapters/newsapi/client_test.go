package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyintel/internal/adapters/config"
	"companyintel/internal/cache"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.NewsAPIConfig{
		APIKey:  apiKey,
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, cache.NewMemoryStore(5*time.Minute))
}

func TestCompanyNews_NoKeyUsesMock(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without an API key")
	})

	articles := client.CompanyNews(context.Background(), "Acme Corp", "ACME", 7, 10)
	require.Len(t, articles, 5)
	for _, a := range articles {
		assert.Equal(t, "ACME", a.Symbol)
		assert.NotEmpty(t, a.Title)
		require.NotNil(t, a.URL)
		require.NotNil(t, a.PublishedAt)
	}
}

func TestCompanyNews_Live(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, `"Acme Corp" OR "ACME"`, r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "Wire"},
					"author": "Jo Writer",
					"title": "Acme shares rally",
					"description": "Short description.",
					"url": "https://wire.example.com/acme-rally",
					"publishedAt": "2025-06-02T10:00:00Z",
					"content": "Full content body."
				},
				{
					"source": {"name": ""},
					"title": "Acme opens new office",
					"description": "Description used as content.",
					"url": "https://wire.example.com/acme-office",
					"publishedAt": "bad-timestamp"
				}
			]
		}`))
	})

	articles := client.CompanyNews(context.Background(), "Acme Corp", "acme", 7, 10)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "ACME", first.Symbol)
	assert.Equal(t, "Acme shares rally", first.Title)
	require.NotNil(t, first.Source)
	assert.Equal(t, "Wire", *first.Source)
	require.NotNil(t, first.Content)
	assert.Equal(t, "Full content body.", *first.Content)
	require.NotNil(t, first.PublishedAt)

	second := articles[1]
	assert.Nil(t, second.Source)
	assert.Nil(t, second.Author)
	// Content falls back to the description; bad timestamps become nil.
	require.NotNil(t, second.Content)
	assert.Equal(t, "Description used as content.", *second.Content)
	assert.Nil(t, second.PublishedAt)
}

func TestCompanyNews_UpstreamErrorFallsBackToMock(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	articles := client.CompanyNews(context.Background(), "Acme Corp", "ACME", 7, 10)
	assert.Len(t, articles, 5)
}

func TestCompanyNews_NonOKStatusFallsBackToMock(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "message": "apiKeyInvalid"}`))
	})

	articles := client.CompanyNews(context.Background(), "Acme Corp", "ACME", 7, 10)
	assert.Len(t, articles, 5)
}

func TestCompanyNews_CachesLiveResults(t *testing.T) {
	calls := 0
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [{"source": {"name": "Wire"}, "title": "One", "url": "https://wire.example.com/one"}]
		}`))
	})

	ctx := context.Background()
	first := client.CompanyNews(ctx, "Acme Corp", "ACME", 7, 10)
	second := client.CompanyNews(ctx, "Acme Corp", "ACME", 7, 10)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 1, calls)
}

func TestMockArticles_Deterministic(t *testing.T) {
	a := MockArticles("Acme Corp", "ACME")
	b := MockArticles("Acme Corp", "ACME")

	require.Len(t, a, 5)
	require.Len(t, b, 5)
	for i := range a {
		assert.Equal(t, a[i].Title, b[i].Title)
		assert.Equal(t, *a[i].URL, *b[i].URL)
	}

	// URLs embed the symbol so re-ingestion dedupes per company.
	assert.Equal(t, "https://example.com/news/acme-earnings", *a[0].URL)

	sources := make([]string, 0, 5)
	for _, art := range a {
		sources = append(sources, *art.Source)
	}
	assert.Equal(t, []string{"Financial Times", "TechCrunch", "Bloomberg", "Reuters", "CNBC"}, sources)
}
