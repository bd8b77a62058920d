package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "weather-map-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "text/xml", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	c := New("weather-map-test", 5*time.Second)
	body, err := c.Get(context.Background(), srv.URL, "text/xml")

	require.NoError(t, err)
	assert.Equal(t, "<ok/>", string(body))
}

func TestGet_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, strings.Repeat("x", 500), http.StatusNotFound)
	}))
	defer srv.Close()

	c := New("ua", 5*time.Second, WithRetries(3))
	_, err := c.Get(context.Background(), srv.URL, "")

	require.Error(t, err)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusNotFound, serr.Code)
	assert.Len(t, serr.Snippet, 200)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_SingleAttemptByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New("ua", 5*time.Second)
	_, err := c.Get(context.Background(), srv.URL, "")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := New("ua", 5*time.Second, WithRetries(2))
	body, err := c.Get(context.Background(), srv.URL, "")

	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(2), calls.Load())
}
