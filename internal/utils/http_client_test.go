package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient()
	client2 := NewHTTPClient()

	if client1.Client == nil || client2.Client == nil {
		t.Fatal("expected embedded *resty.Client to be non-nil")
	}
	// base URL и токен одного адаптера не должны протекать в другой
	client1.SetBaseURL("http://objects.local")
	if client2.BaseURL == client1.BaseURL {
		t.Fatal("expected NewHTTPClient to return clients with independent settings")
	}
}

func TestNewHTTPClient_DefaultHeaders(t *testing.T) {
	var gotAgent, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient().R().Get(srv.URL + "/api/version")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode())
	}
	if gotAgent != userAgent {
		t.Errorf("expected User-Agent %q, got %q", userAgent, gotAgent)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected Accept 'application/json', got %q", gotAccept)
	}
}
