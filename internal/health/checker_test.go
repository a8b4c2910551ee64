package health

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/internal/core/logger"
)

func testChecker(t *testing.T) *Checker {
	t.Helper()
	log, err := logger.Init("error", "text", "", "", false)
	require.NoError(t, err)
	return NewChecker(log)
}

func TestCheckHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/teapot" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	require.NoError(t, CheckHTTP(ctx, srv.URL, 0, time.Second))
	require.NoError(t, CheckHTTP(ctx, srv.URL+"/teapot", http.StatusTeapot, time.Second))
	require.Error(t, CheckHTTP(ctx, srv.URL+"/teapot", 0, time.Second))
	require.Error(t, CheckHTTP(ctx, srv.URL, http.StatusCreated, time.Second))
	require.Error(t, CheckHTTP(ctx, "", 0, time.Second))
}

func TestCheckTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	ctx := context.Background()

	require.NoError(t, CheckTCP(ctx, "127.0.0.1", port, time.Second))
	require.Error(t, CheckTCP(ctx, "127.0.0.1", 0, time.Second))
}

func TestCheckerDispatch(t *testing.T) {
	c := testChecker(t)
	ctx := context.Background()

	// nil spec means no probe configured
	require.NoError(t, c.Check(ctx, nil))

	err := c.Check(ctx, &v1.HealthCheckSpec{Type: "icmp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown health check type")
}

func TestWaitHealthyRetries(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testChecker(t)
	spec := &v1.HealthCheckSpec{
		Type:     "http",
		URL:      srv.URL,
		Retries:  5,
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
	}

	require.NoError(t, c.WaitHealthy(context.Background(), spec))
	assert.Equal(t, 3, hits)
}

func TestWaitHealthyExhaustsRetries(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testChecker(t)
	spec := &v1.HealthCheckSpec{
		Type:     "http",
		URL:      srv.URL,
		Retries:  2,
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
	}

	err := c.WaitHealthy(context.Background(), spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, hits)
}

func TestWaitHealthySingleAttempt(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testChecker(t)
	spec := &v1.HealthCheckSpec{
		Type:     "http",
		URL:      srv.URL,
		Retries:  1, // retries counts attempts: exactly one probe, no waiting
		Interval: time.Minute,
		Timeout:  time.Second,
	}

	err := c.WaitHealthy(context.Background(), spec)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}
