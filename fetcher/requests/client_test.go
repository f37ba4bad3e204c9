package requests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name string `json:"name"`
}

func (p *testPayload) Validate() error {
	if p.Name == "" {
		return errors.New("missing name")
	}
	return nil
}

// Create a client pointing to the test server.
func newTestClient(server *httptest.Server, timeout time.Duration) *Client {
	return NewClient(ClientConfig{
		ApiKey:          "RGAPI-test",
		Timeout:         timeout,
		BaseURLTemplate: server.URL,
	}, server.Client(), NewRateLimiter(), nil)
}

// Create a server answering with the given statuses in order, then the last one.
func sequenceServer(t *testing.T, statuses []int, body string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}

		assert.Equal(t, "RGAPI-test", r.Header.Get("X-Riot-Token"))

		w.WriteHeader(statuses[idx])
		if statuses[idx] == http.StatusOK {
			w.Write([]byte(body))
		}
	}))
}

func TestClientGetRetries(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		expectedCalls int32
		checkErr      func(t *testing.T, err error)
	}{
		{
			name:          "500 then 200 succeeds",
			statuses:      []int{500, 200},
			expectedCalls: 2,
		},
		{
			name:          "500 three times surfaces server error",
			statuses:      []int{500, 500, 500},
			expectedCalls: 3,
			checkErr: func(t *testing.T, err error) {
				var serverErr *ServerError
				require.ErrorAs(t, err, &serverErr)
				assert.Equal(t, 500, serverErr.StatusCode)
			},
		},
		{
			name:          "unexpected status is retried",
			statuses:      []int{418, 418, 200},
			expectedCalls: 3,
		},
		{
			name:          "unauthorized is not retried",
			statuses:      []int{401, 200},
			expectedCalls: 1,
			checkErr: func(t *testing.T, err error) {
				var authErr *AuthenticationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, 401, authErr.StatusCode)
			},
		},
		{
			name:          "forbidden is not retried",
			statuses:      []int{403},
			expectedCalls: 1,
			checkErr: func(t *testing.T, err error) {
				var authErr *AuthenticationError
				require.ErrorAs(t, err, &authErr)
			},
		},
		{
			name:          "not found is not retried",
			statuses:      []int{404, 200},
			expectedCalls: 1,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:          "rate limit is not retried",
			statuses:      []int{429, 200},
			expectedCalls: 1,
			checkErr: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				require.ErrorAs(t, err, &rateErr)
				assert.False(t, rateErr.HasRetryAfter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := sequenceServer(t, tt.statuses, `{"name":"ok"}`, &calls)
			defer server.Close()

			client := newTestClient(server, time.Second)

			var out testPayload
			err := client.Get(context.Background(), "euw1", "/lol/test", nil, &out)

			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
			if tt.checkErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "ok", out.Name)
				return
			}
			require.Error(t, err)
			tt.checkErr(t, err)
		})
	}
}

func TestClientRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := newTestClient(server, time.Second).Get(context.Background(), "europe", "/riot/test", nil, nil)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.True(t, rateErr.HasRetryAfter)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
}

func TestClientMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"name":`},
		{name: "missing required field", body: `{"other":"value"}`},
		{name: "wrong type", body: `{"name":12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := sequenceServer(t, []int{200}, tt.body, &calls)
			defer server.Close()

			var out testPayload
			err := newTestClient(server, time.Second).Get(context.Background(), "euw1", "/lol/test", nil, &out)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestClientTimeout(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	err := newTestClient(server, 50*time.Millisecond).Get(context.Background(), "euw1", "/lol/slow", nil, nil)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientCancelled(t *testing.T) {
	var calls int32
	server := sequenceServer(t, []int{200}, `{"name":"ok"}`, &calls)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestClient(server, time.Second).Get(ctx, "euw1", "/lol/test", nil, &testPayload{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsRetryable(err))
}

func TestClientMissingApiKey(t *testing.T) {
	client := NewClient(ClientConfig{}, nil, nil, nil)

	err := client.Get(context.Background(), "euw1", "/lol/test", nil, nil)

	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestBuildURL(t *testing.T) {
	client := NewClient(ClientConfig{ApiKey: "key"}, nil, nil, nil)

	query := url.Values{}
	query.Set("count", "20")

	assert.Equal(t,
		"https://europe.api.riotgames.com/lol/match/v5/matches/by-puuid/abc/ids?count=20",
		client.BuildURL("europe", "/lol/match/v5/matches/by-puuid/abc/ids", query),
	)
	assert.Equal(t, "https://kr.api.riotgames.com/lol/status", client.BuildURL("kr", "lol/status", nil))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&AuthenticationError{StatusCode: 403}, MessageUnavailable},
		{&ServerError{StatusCode: 503}, MessageUnavailable},
		{&TimeoutError{}, MessageUnavailable},
		{&MalformedResponseError{Err: errors.New("secret body")}, MessageUnavailable},
		{&NotFoundError{Resource: "account"}, MessageNotFound},
		{&RateLimitError{}, MessageRateLimited},
		{&ValidationError{Field: "puuid", Reason: "must have 78 characters"}, "invalid puuid: must have 78 characters"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PublicMessage(tt.err))
	}
}

func TestRateLimiterWait(t *testing.T) {
	limiter := NewRateLimiter(RiotLimit{Limit: 2, Window: time.Hour})

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx, "euw1"))
	require.NoError(t, limiter.Wait(ctx, "euw1"))

	// Other routing values have their own budget.
	require.NoError(t, limiter.Wait(ctx, "na1"))

	// The third request would need to wait for a long time.
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(timeoutCtx, "euw1"))

	// A disabled limiter never blocks.
	var disabled *RateLimiter
	assert.NoError(t, disabled.Wait(ctx, "euw1"))
}
