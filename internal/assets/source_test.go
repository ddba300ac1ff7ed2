package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPSource_Fetch(t *testing.T) {
	payload := pngBytes(t, 2, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		case "/big.png":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	s := NewHTTPSource(ts.Client())
	data, err := s.Fetch(context.Background(), ts.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(data) != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), len(data))
	}

	if _, err := s.Fetch(context.Background(), ts.URL+"/missing.png"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}

	s.maxBytes = 16
	if _, err := s.Fetch(context.Background(), ts.URL+"/big.png"); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	if _, err := Decode("x", nil); err == nil {
		t.Fatal("expected error for empty data")
	}
	if _, err := Decode("x", []byte("<html>")); err == nil {
		t.Fatal("expected error for non-image data")
	}
}
