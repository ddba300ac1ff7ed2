package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/reviews-feed/internal/config"
	"github.com/glabrego/reviews-feed/internal/logging"
	"github.com/glabrego/reviews-feed/internal/tui"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "reviews",
		Short:         "Browse a paginated review feed in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
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

			logger.Info("reviews: starting", "api", cfg.APIBaseURL, "backend", cfg.Cache.Backend, "page_size", cfg.PageSize)
			program := tea.NewProgram(tui.NewModel(rt.machine, rt.adapter), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("tui error: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.SetContext(context.Background())

	root.AddCommand(newServeCmd(&cfgFile))
	root.AddCommand(newFetchCmd(&cfgFile))
	root.AddCommand(newCacheCmd(&cfgFile))
	return root
}
