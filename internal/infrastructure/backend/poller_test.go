package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoreClient_PollsUntilResults(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/more", r.URL.Path)
		assert.Equal(t, "phone x", r.URL.Query().Get("query"))
		assert.Equal(t, "75000", r.URL.Query().Get("user_price"))

		w.Header().Set("Content-Type", "application/json")
		if requests.Add(1) < 3 {
			fmt.Fprint(w, `{"query":"phone x","status":"loading","worthit":{"score":null,"message":"No data yet"}}`)
			return
		}
		fmt.Fprint(w, `{
			"query": "phone x",
			"results": {
				"poorvika": {"title":"Phone X","price_text":"₹72,500","url":"https://poorvika.example/p"},
				"sangeetha": {"title":"Phone X 256GB","price":73999}
			},
			"worthit": {"score": 88.5, "avg_price": 73249.5, "message": "Fair deal, but check alternatives"}
		}`)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, 5*time.Millisecond, 10)
	sink := &collectSink{}

	err := client.FetchMore(context.Background(), "phone x", "75000", sink)
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())

	// Every contained row routed exactly once
	results, scores := sink.snapshot()
	assert.Len(t, results, 2)
	sites := map[string]bool{}
	for _, r := range results {
		sites[r.site] = true
	}
	assert.True(t, sites["poorvika"])
	assert.True(t, sites["sangeetha"])

	require.Len(t, scores, 1)
	require.NotNil(t, scores[0].Score)
	assert.Equal(t, 88.5, *scores[0].Score)
}

func TestMoreClient_BareMapResponse(t *testing.T) {
	// Legacy shape: the site→result map is the top-level object
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"reliance": {"title":"Phone X","price":74500}}`)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, 5*time.Millisecond, 10)
	sink := &collectSink{}

	err := client.FetchMore(context.Background(), "phone x", "", sink)
	require.NoError(t, err)

	results, _ := sink.snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, "reliance", results[0].site)
}

func TestMoreClient_OmitsEmptyUserPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := r.URL.Query()["user_price"]
		assert.False(t, has, "user_price should be omitted when empty")
		fmt.Fprint(w, `{"results":{}}`)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, 5*time.Millisecond, 10)
	err := client.FetchMore(context.Background(), "phone x", "", &collectSink{})
	require.NoError(t, err)
}

func TestMoreClient_TransportFailureEndsLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, 5*time.Millisecond, 10)

	err := client.FetchMore(context.Background(), "phone x", "75000", &collectSink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendFailure)
}

func TestMoreClient_GivesUpAfterAttemptCeiling(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"status":"loading"}`)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, time.Millisecond, 4)

	err := client.FetchMore(context.Background(), "phone x", "75000", &collectSink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPollExhausted)
	assert.Equal(t, int32(4), requests.Load())
}

func TestMoreClient_CancelStopsLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"loading"}`)
	}))
	defer server.Close()

	client := NewMoreClient(server.URL, 5*time.Second, time.Hour, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.FetchMore(ctx, "phone x", "75000", &collectSink{}) }()

	// First response arrives, then the loop sleeps; cancellation must cut it short
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("FetchMore did not return after cancellation")
	}
}

func TestParseMoreResponse(t *testing.T) {
	t.Run("loading status", func(t *testing.T) {
		resp, err := ParseMoreResponse([]byte(`{"query":"q","status":"loading"}`))
		require.NoError(t, err)
		assert.True(t, resp.StillLoading())
		assert.Nil(t, resp.Results)
	})

	t.Run("enveloped results", func(t *testing.T) {
		resp, err := ParseMoreResponse([]byte(`{"results":{"pai":{"title":"T","price":1}}}`))
		require.NoError(t, err)
		assert.False(t, resp.StillLoading())
		require.Contains(t, resp.Results, "pai")
	})

	t.Run("bare map ignores envelope keys", func(t *testing.T) {
		resp, err := ParseMoreResponse([]byte(`{"query":"q","pai":{"title":"T","price":1}}`))
		require.NoError(t, err)
		require.Contains(t, resp.Results, "pai")
		assert.NotContains(t, resp.Results, "query")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseMoreResponse([]byte(`{broken`))
		require.Error(t, err)
	})
}
