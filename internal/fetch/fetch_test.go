package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-portfolio/internal/fetch"
)

func TestGet_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Retry: 2, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := cl.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(b) != "ok" || atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("body=%q hits=%d", b, hits)
	}
}

func TestGet_NoRetryOnNotFound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{Retry: 3, Backoff: time.Millisecond})
	_, err := cl.Get(context.Background(), srv.URL)
	if !fetch.IsNotFound(err) {
		t.Fatalf("expect not found, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("hits=%d", hits)
	}
}

func TestGet_UserAgentOverride(t *testing.T) {
	t.Setenv(fetch.UAEnv, "portfolio-test")
	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.UserAgent())
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{})
	if _, err := cl.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := ua.Load(); got != "portfolio-test" {
		t.Fatalf("ua=%v", got)
	}
}

func TestGet_CanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{Retry: 5, Backoff: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := cl.Get(ctx, srv.URL); err == nil {
		t.Fatalf("expect error")
	}
}

func TestNew_BadProxy(t *testing.T) {
	if _, err := fetch.New(fetch.Options{ProxyHTTP: "://bad"}); err == nil {
		t.Fatalf("expect proxy parse error")
	}
}
