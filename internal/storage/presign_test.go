package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptidwatch/pkg/utils"
)

func TestPresignedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/signed/abc.jpg"}`))
	}))
	defer srv.Close()

	client := NewPresignClient(srv.URL, time.Second)
	url, err := client.PresignedURL(context.Background(), "abc.jpg")
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if url != "https://cdn.example.com/signed/abc.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestPresignedURLUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPresignClient(srv.URL, time.Second)
	_, err := client.PresignedURL(context.Background(), "abc.jpg")
	var appErr *utils.CustomError
	if !utils.As(err, &appErr) || appErr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 dependency error, got %v", err)
	}
}

func TestPresignedURLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewPresignClient(srv.URL, 20*time.Millisecond)
	_, err := client.PresignedURL(context.Background(), "abc.jpg")
	var appErr *utils.CustomError
	if !utils.As(err, &appErr) || appErr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on timeout, got %v", err)
	}
}

func TestPresignAllFailsWhole(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"url":"https://cdn.example.com/one.jpg"}`))
	}))
	defer srv.Close()

	client := NewPresignClient(srv.URL, time.Second)
	urls, err := PresignAll(context.Background(), client, []string{"one.jpg", "two.jpg"})
	if err == nil {
		t.Fatalf("expected failure to abort the batch, got %v", urls)
	}
}

func TestPresignedURLMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{`))
	}))
	defer srv.Close()

	client := NewPresignClient(srv.URL, time.Second)
	if _, err := client.PresignedURL(context.Background(), "abc.jpg"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
