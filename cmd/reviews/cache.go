package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glabrego/reviews-feed/internal/config"
)

type statser interface {
	Stats(ctx context.Context) (int, int64, error)
}

func newCacheCmd(cfgFile *string) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the persistent image cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print how many images the configured backend holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			store, closer, err := openStore(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			s, ok := store.(statser)
			if !ok {
				return fmt.Errorf("backend %s does not report stats", cfg.Cache.Backend)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			count, size, err := s.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\nimages: %s\nsize: %s\n",
				cfg.Cache.Backend, humanize.Comma(int64(count)), humanize.IBytes(uint64(size)))
			return nil
		},
	})
	return cacheCmd
}
