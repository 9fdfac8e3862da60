package fetcher

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"econfetch/internal/config"
	"econfetch/internal/logger"
)

func newTestClient(timeoutSec int) *Client {
	return NewClient(config.HTTPConfig{TimeoutSec: timeoutSec, UserAgent: "econfetch-test"}, logger.Discard())
}

func TestClient_Get_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}

		if got := r.URL.Query().Get("year"); got != "2020" {
			t.Errorf("Expected year=2020, got %q", got)
		}

		if got := r.Header.Get("User-Agent"); got != "econfetch-test" {
			t.Errorf("Expected configured user agent, got %q", got)
		}

		if got := r.Header.Get("X-Api-Key"); got != "k" {
			t.Errorf("Expected X-Api-Key header, got %q", got)
		}

		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	resp, err := newTestClient(5).Get(context.Background(), Request{
		URL:     ts.URL,
		Query:   map[string]string{"year": "2020"},
		Headers: map[string]string{"X-Api-Key": "k"},
	})
	if err != nil {
		t.Fatalf("Get returned unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"data":[]}` {
		t.Errorf("Unexpected response: %d %s", resp.StatusCode, resp.Body)
	}
}

func TestClient_Get_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid api key"))
	}))
	defer ts.Close()

	_, err := newTestClient(5).Get(context.Background(), Request{URL: ts.URL})
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("Expected ErrNetwork and ErrUnexpectedStatusCode, got %v", err)
	}

	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("Expected status and body snippet in error, got %v", err)
	}
}

func TestClient_Get_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	ln.Close()

	_, err = newTestClient(5).Get(context.Background(), Request{URL: "http://" + addr + "/data"})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got %v", err)
	}

	if errors.Is(err, ErrUnexpectedStatusCode) {
		t.Errorf("Connection failure must not look like a status error: %v", err)
	}
}

func TestClient_Get_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	client := newTestClient(1)
	client.http.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := client.Get(context.Background(), Request{URL: ts.URL})

	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork on timeout, got %v", err)
	}

	if time.Since(start) > 5*time.Second {
		t.Errorf("Timeout was not enforced, took %v", time.Since(start))
	}
}
