package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/reviews-feed/internal/config"
	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/logging"
)

const fetchWrapWidth = 72

func newFetchCmd(cfgFile *string) *cobra.Command {
	var (
		pages  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load the feed without the UI and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format %q (text or json)", format)
			}
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger, logCloser, err := logging.New(cfg.Log.Path, cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("logging error: %w", err)
			}
			defer logCloser.Close()

			rt, err := build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			last := feed.PhaseIdle
			unsubscribe := rt.machine.Subscribe(func(s feed.Snapshot) {
				if s.Phase != last {
					logger.Info("fetch: phase", "from", last.String(), "to", s.Phase.String(), "rows", len(s.Rows))
					last = s.Phase
				}
			})
			defer unsubscribe()

			ctx := cmd.Context()
			for loaded := 0; pages <= 0 || loaded < pages; loaded++ {
				if err := drive(ctx, rt.machine, rt.machine.LoadNextPage()); err != nil {
					return err
				}
				if err := rt.machine.LastError(); err != nil {
					return err
				}
				if rt.machine.Complete() {
					break
				}
			}

			snap := rt.machine.Snapshot()
			label := countLabel(rt.adapter)
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), snap, label)
			}
			return writeText(cmd.OutOrStdout(), snap, label)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages to load (0 loads the whole feed)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

type fetchedReview struct {
	Username     string   `json:"username"`
	Rating       int      `json:"rating"`
	Created      string   `json:"created"`
	Text         string   `json:"text"`
	AvatarURL    string   `json:"avatar_url"`
	PhotoURLs    []string `json:"photo_urls"`
	AvatarLoaded bool     `json:"avatar_loaded"`
	PhotosLoaded int      `json:"photos_loaded"`
}

type fetchedFeed struct {
	Count    int             `json:"count"`
	Label    string          `json:"label,omitempty"`
	Complete bool            `json:"complete"`
	Reviews  []fetchedReview `json:"reviews"`
}

// countLabel returns the trailing count row's text, or "" while the list
// does not show one yet.
func countLabel(a *feed.Adapter) string {
	n := a.RowCount()
	if n == 0 {
		return ""
	}
	row, ok := a.RowAt(n - 1)
	if !ok || row.Count == nil {
		return ""
	}
	return row.Count.Label.Content
}

func writeJSON(w io.Writer, s feed.Snapshot, label string) error {
	out := fetchedFeed{Count: s.Total, Label: label, Complete: s.Complete, Reviews: make([]fetchedReview, 0, len(s.Rows))}
	for _, row := range s.Rows {
		r := fetchedReview{
			Username:     row.Username.Content,
			Rating:       row.Rating.Value,
			Created:      row.Created.Content,
			Text:         row.Body.Content,
			AvatarURL:    row.AvatarURL,
			PhotoURLs:    row.PhotoURLs,
			AvatarLoaded: row.Avatar != nil && !row.Avatar.Placeholder,
		}
		for _, p := range row.Photos {
			if p != nil && !p.Placeholder {
				r.PhotosLoaded++
			}
		}
		out.Reviews = append(out.Reviews, r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, s feed.Snapshot, label string) error {
	wrap := layout.Cells().Wrap
	var b strings.Builder
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "%s  %s  %s\n", row.Username.Content, row.Rating.Text, row.Created.Content)
		for _, line := range wrap(row.Body.Content, fetchWrapWidth) {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		if len(row.PhotoURLs) > 0 {
			fmt.Fprintf(&b, "    [%d photo(s)]\n", len(row.PhotoURLs))
		}
		b.WriteString("\n")
	}
	if label != "" {
		b.WriteString(label)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
