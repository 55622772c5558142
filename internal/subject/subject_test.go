package subject

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewGreetingFetcher(time.Second)
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Greeting, resp.Text)
}

func TestFetchNonOKSuccessStatus(t *testing.T) {
	// Any 2xx counts as success, not just 200.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	f := NewGreetingFetcher(time.Second)
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, Greeting, resp.Text)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewGreetingFetcher(time.Second)
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err, "a non-2xx answer is an outcome, not an error")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, FailureText, resp.Text)
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewGreetingFetcher(time.Second)
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, FailureText, resp.Text)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // Nothing is listening anymore.

	f := NewGreetingFetcher(time.Second)
	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch")
}

func TestFetchClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewGreetingFetcher(20 * time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewGreetingFetcher(time.Second)
	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetchInvalidURL(t *testing.T) {
	f := NewGreetingFetcher(time.Second)
	_, err := f.Fetch(context.Background(), "http://\x00invalid")
	require.Error(t, err)
}
