package scoreapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubmit(t *testing.T) {
	var got Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "billing-service")
	at := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	sub, err := c.Submit(context.Background(), 7.25, at)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got.Token != "secret-token" || got.Project != "billing-service" {
		t.Errorf("identity fields = %+v", got)
	}
	if got.Timestamp != "2026-08-25T09:30:00Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
	if got.Quality != 7.25 || got.Coverage != 7.25 {
		t.Errorf("score not duplicated into both fields: quality=%v coverage=%v", got.Quality, got.Coverage)
	}
	if got.ID == "" || got.ID != sub.ID {
		t.Errorf("submission id mismatch: sent %q, returned %q", got.ID, sub.ID)
	}
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown project", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", "p")
	_, err := c.Submit(context.Background(), 5, time.Now())
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("err = %v, want status in message", err)
	}
}

func TestSubmitConnectionError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t", "p")
	if _, err := c.Submit(context.Background(), 5, time.Now()); err == nil {
		t.Fatal("expected connection error")
	}
}
