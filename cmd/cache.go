package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcbastosportela/translate-subs/internal/cache"
	"github.com/jcbastosportela/translate-subs/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached translations older than the retention age",
	RunE:  runCacheClean,
}

var cacheMaxAgeDays int

func init() {
	cacheCleanCmd.Flags().IntVar(&cacheMaxAgeDays, "max-age", 0, "retention in days (default: config value)")

	cacheCmd.AddCommand(cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	maxAge := cfg.CacheMaxAge()
	if cmd.Flags().Changed("max-age") {
		maxAge = time.Duration(cacheMaxAgeDays) * 24 * time.Hour
	}

	store, err := cache.NewStore(cfg.ResolvedCacheDir())
	if err != nil {
		return err
	}

	removed, err := store.Clean(maxAge)
	if err != nil {
		return err
	}
	slog.Info("cache cleaned", "removed", removed, "dir", cfg.ResolvedCacheDir())
	return nil
}
