package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/price-engine/internal/common"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.Disabled)

func testClient(retries uint) *Client {
	return New(logger, Config{
		Timeout:     time.Second,
		Retries:     retries,
		BackoffBase: time.Millisecond,
	})
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer svr.Close()

	body, err := testClient(3).Get(context.Background(), svr.URL, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "two failures then one success")
}

func TestGetExhaustsRetryBudget(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer svr.Close()

	_, err := testClient(3).Get(context.Background(), svr.URL, nil)
	require.Error(t, err)

	var ne *common.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, uint(4), ne.Attempts)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "initial attempt plus three retries")
}

func TestBackoffSchedule(t *testing.T) {
	c := New(logger, Config{Retries: 3, BackoffBase: 2 * time.Second})

	assert.Equal(t, 2*time.Second, c.Backoff(0))
	assert.Equal(t, 4*time.Second, c.Backoff(1))
	assert.Equal(t, 8*time.Second, c.Backoff(2))
}

func TestGetStopsOnContextCancel(t *testing.T) {
	var calls int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer svr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(3).Get(ctx, svr.URL, nil)
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(1), "cancelled context must not keep retrying")
}

func TestGetJSONDecodeFailureIsNotNetworkError(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer svr.Close()

	var out map[string]interface{}
	err := testClient(0).GetJSON(context.Background(), svr.URL, nil, &out)
	require.Error(t, err)
	assert.False(t, common.IsNetwork(err))
}

func TestGetRejectsInvalidURL(t *testing.T) {
	_, err := testClient(0).Get(context.Background(), "http://exa mple.com", nil)
	require.Error(t, err)
	assert.False(t, common.IsNetwork(err), "URL validation happens before any request")
}
