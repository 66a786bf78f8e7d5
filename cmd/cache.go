package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/store"
)

var flagPruneOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show the forecast cache",
	RunE:  runCache,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached forecasts older than --older-than",
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached forecast",
	RunE: func(_ *cobra.Command, _ []string) error {
		return pruneCache(0)
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&flagPruneOlderThan, "older-than", 7*24*time.Hour, "Age cutoff")
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCache(_ *cobra.Command, _ []string) error {
	path := store.DefaultPath()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  Cache: none (%s)\n", path)
		return nil
	}

	cache, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer cache.Close()

	n, err := cache.Count()
	if err != nil {
		return fmt.Errorf("counting forecasts: %w", err)
	}

	fmt.Printf("  Cache file: %s\n", path)
	fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(info.Size()))) //nolint:gosec // file sizes are non-negative
	fmt.Printf("  Forecasts: %s\n", formatNumber(int64(n)))
	fmt.Printf("  Updated: %s\n", humanize.Time(info.ModTime()))
	return nil
}

func runCachePrune(_ *cobra.Command, _ []string) error {
	return pruneCache(flagPruneOlderThan)
}

func pruneCache(olderThan time.Duration) error {
	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer cache.Close()

	n, err := cache.Prune(olderThan)
	if err != nil {
		return err
	}
	fmt.Printf("  Removed %s cached forecasts\n", formatNumber(n))
	return nil
}
