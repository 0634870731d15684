package wikipost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaigeo/postal/internal/observability"
)

func TestClient_FetchAndCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html>page</html>"))
	}))
	defer srv.Close()

	cache := NewCache(t.TempDir(), DefaultRetention)
	client := NewClient(cache, ClientOptions{URL: srv.URL}, observability.Nop())

	data, err := client.FetchHTML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", string(data))
	assert.Equal(t, 1, hits)

	// Second fetch is served from the cache.
	data, err = client.FetchHTML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", string(data))
	assert.Equal(t, 1, hits)
}

func TestClient_NonSuccessStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	cache := NewCache(t.TempDir(), DefaultRetention)
	client := NewClient(cache, ClientOptions{URL: srv.URL}, observability.Nop())

	_, err := client.FetchHTML(context.Background())
	require.ErrorIs(t, err, ErrFetchFailure)

	// Nothing was cached.
	_, ok, err := cache.Get(CachePrefix)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_OfflineWithoutCacheFails(t *testing.T) {
	cache := NewCache(t.TempDir(), DefaultRetention)
	client := NewClient(cache, ClientOptions{URL: "http://127.0.0.1:1", Offline: true}, observability.Nop())

	_, err := client.FetchHTML(context.Background())
	require.ErrorIs(t, err, ErrFetchFailure)
}

func TestClient_OfflineUsesCache(t *testing.T) {
	cache := NewCache(t.TempDir(), DefaultRetention)
	require.NoError(t, cache.Put(CachePrefix, []byte("cached")))

	client := NewClient(cache, ClientOptions{URL: "http://127.0.0.1:1", Offline: true}, observability.Nop())

	data, err := client.FetchHTML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
}
