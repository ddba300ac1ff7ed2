package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/reviews-feed/internal/config"
	"github.com/glabrego/reviews-feed/internal/devserver"
	"github.com/glabrego/reviews-feed/internal/logging"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	var (
		addr    string
		fixture string
		images  string
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve review pages and images for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("fixture") {
				cfg.Serve.Fixture = fixture
			}
			if cmd.Flags().Changed("images") {
				cfg.Serve.Images = images
			}

			lvl, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			srv, err := devserver.New(devserver.Options{
				Fixture: cfg.Serve.Fixture,
				Images:  cfg.Serve.Images,
				Latency: latency,
				Logger:  logging.NewWithWriter(os.Stderr, lvl),
			})
			if err != nil {
				return err
			}
			return srv.Start(cfg.Serve.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from serve.addr)")
	cmd.Flags().StringVar(&fixture, "fixture", "", "review page JSON file (default: bundled reviews)")
	cmd.Flags().StringVar(&images, "images", "", "directory served under /images/ (default: generated)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "delay added to every response")
	return cmd
}
