package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dgallion1/manweave/internal/manual"
)

func TestRemoteStore_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages/getstarted" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("auth header = %q", got)
		}
		w.Write([]byte("Getting started.\r\n"))
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "sekrit")
	defer s.Close()

	body, err := s.Load(context.Background(), "getstarted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Getting started.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestRemoteStore_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "")
	defer s.Close()

	_, err := s.Load(context.Background(), "ghost")
	var nf *manual.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "ghost" {
		t.Errorf("error names %q, want %q", nf.ID, "ghost")
	}
}

func TestRemoteStore_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "")
	defer s.Close()

	body, err := s.Load(context.Background(), "index")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "recovered" {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
}

func TestRemoteStore_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "")
	defer s.Close()

	if _, err := s.Load(context.Background(), "index"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 request, got %d", calls.Load())
	}
}
