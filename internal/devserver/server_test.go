package devserver

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glabrego/reviews-feed/internal/reviews"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getPage(t *testing.T, url string) reviews.Page {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page, err := reviews.Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return page
}

func TestReviews_PaginatesBundledFixture(t *testing.T) {
	ts := newTestServer(t, Options{})

	cases := []struct {
		query string
		want  int
	}{
		{"offset=0&limit=20", 20},
		{"offset=20&limit=20", 20},
		{"offset=40&limit=20", 5},
		{"offset=45&limit=20", 0},
		{"offset=100", 0},
		{"", 20},
	}
	for _, tc := range cases {
		page := getPage(t, ts.URL+"/reviews?"+tc.query)
		if page.Count != 45 {
			t.Fatalf("%q: expected count 45, got %d", tc.query, page.Count)
		}
		if len(page.Items) != tc.want {
			t.Fatalf("%q: expected %d items, got %d", tc.query, tc.want, len(page.Items))
		}
	}
}

func TestReviews_AbsolutizesAssetURLs(t *testing.T) {
	ts := newTestServer(t, Options{})

	page := getPage(t, ts.URL+"/reviews?offset=0&limit=20")
	first := page.Items[0]
	if !strings.HasPrefix(first.AvatarURL, ts.URL+"/images/") {
		t.Fatalf("expected absolute avatar url, got %q", first.AvatarURL)
	}
	for _, rec := range page.Items {
		for _, u := range rec.PhotoURLs {
			if !strings.HasPrefix(u, ts.URL+"/images/") {
				t.Fatalf("expected absolute photo url, got %q", u)
			}
		}
	}
	if page.Items[9].AvatarURL != "not a url" {
		t.Fatalf("expected invalid avatar url to pass through, got %q", page.Items[9].AvatarURL)
	}
}

func TestReviews_RejectsBadParams(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, q := range []string{"offset=-1", "offset=abc", "limit=0", "limit=x"} {
		resp, err := http.Get(ts.URL + "/reviews?" + q)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", q, resp.StatusCode)
		}
	}
}

func TestReviews_LoadsFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	fixture := `{"count":2,"items":[{"first_name":"A","rating":5,"text":"x","created":"1 мая","avatar_url":"","photo_urls":null}]}`
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Options{Fixture: path})

	page := getPage(t, ts.URL+"/reviews")
	if page.Count != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestNew_RejectsBadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"items":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Options{Fixture: path}); err == nil {
		t.Fatal("expected error for fixture without count")
	}
	if _, err := New(Options{Fixture: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestImages_GeneratedPNGIsDeterministic(t *testing.T) {
	ts := newTestServer(t, Options{})

	fetch := func(name string) []byte {
		resp, err := http.Get(ts.URL + "/images/" + name)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("expected image/png, got %q", ct)
		}
		data, _ := io.ReadAll(resp.Body)
		return data
	}

	a := fetch("avatar-1.png")
	if !bytes.Equal(a, fetch("avatar-1.png")) {
		t.Fatal("expected identical bytes for the same name")
	}
	img, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("decode avatar: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 72 || b.Dy() != 72 {
		t.Fatalf("expected square avatar, got %v", b)
	}

	photo, err := png.Decode(bytes.NewReader(fetch("photo-3-0.png")))
	if err != nil {
		t.Fatalf("decode photo: %v", err)
	}
	if b := photo.Bounds(); b.Dx() != 110 || b.Dy() != 132 {
		t.Fatalf("expected photo-shaped image, got %v", b)
	}
}

func TestImages_ServesDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Options{Images: dir})

	resp, err := http.Get(ts.URL + "/images/a.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "raw" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/images/missing.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
