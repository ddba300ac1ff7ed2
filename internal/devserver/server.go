// Package devserver provides a local review provider for development and tests.
package devserver

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glabrego/reviews-feed/internal/reviews"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed fixtures/reviews.json
var bundledFixture []byte

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Options configures a Server. Zero values serve the bundled fixture and
// generated images.
type Options struct {
	// Fixture is a path to a review page JSON file.
	Fixture string
	// Images is a directory served under /images/. Empty generates images.
	Images string
	// Latency delays every response, to make loading states visible.
	Latency time.Duration
	Logger  *slog.Logger
}

// Server serves GET /reviews and GET /images/{name}.
type Server struct {
	records []reviews.Record
	count   int
	images  string
	latency time.Duration
	logger  *slog.Logger
	router  chi.Router
}

// New creates a new server.
func New(opts Options) (*Server, error) {
	data := bundledFixture
	if opts.Fixture != "" {
		raw, err := os.ReadFile(opts.Fixture)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		data = raw
	}
	page, err := reviews.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		records: page.Items,
		count:   page.Count,
		images:  opts.Images,
		latency: opts.Latency,
		logger:  logger,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.latency > 0 {
		r.Use(s.delay)
	}

	r.Get("/reviews", s.handleReviews)
	r.Get("/images/{name}", s.handleImage)

	s.router = r
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("devserver: listening", "addr", addr, "reviews", len(s.records), "count", s.count)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("devserver: request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	start := min(offset, len(s.records))
	end := min(start+limit, len(s.records))
	items := make([]reviews.Record, 0, end-start)
	base := baseURL(r)
	for _, rec := range s.records[start:end] {
		items = append(items, absolutize(rec, base))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews.Page{Count: s.count, Items: items})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		http.Error(w, "invalid image name", http.StatusBadRequest)
		return
	}

	if s.images != "" {
		http.ServeFile(w, r, filepath.Join(s.images, name))
		return
	}

	data, err := GenerateImage(name)
	if err != nil {
		s.logger.Error("devserver: generate image failed", "name", name, "error", err)
		http.Error(w, "image generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// absolutize rewrites server-relative asset paths to URLs on this host.
func absolutize(rec reviews.Record, base string) reviews.Record {
	rec.AvatarURL = absoluteURL(rec.AvatarURL, base)
	if len(rec.PhotoURLs) > 0 {
		photos := make([]string, len(rec.PhotoURLs))
		for i, u := range rec.PhotoURLs {
			photos[i] = absoluteURL(u, base)
		}
		rec.PhotoURLs = photos
	}
	return rec
}

func absoluteURL(raw, base string) string {
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return raw
}

// GenerateImage renders a flat PNG whose colour is derived from name.
// Names starting with "avatar" are square; everything else is photo shaped.
func GenerateImage(name string) ([]byte, error) {
	w, h := 110, 132
	if strings.HasPrefix(name, "avatar") {
		w, h = 72, 72
	}

	sum := fnv.New32a()
	sum.Write([]byte(name))
	v := sum.Sum32()
	fill := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	edge := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := fill
			if x < 2 || y < 2 || x >= w-2 || y >= h-2 {
				c = edge
			}
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
