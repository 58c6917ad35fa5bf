package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached puzzle artifacts",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheClearCommand(container),
		newCacheSizeCommand(container),
		newCacheStatsCommand(container),
		newCacheInvalidateCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	var (
		year int
		kind string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCacheEntries(cmd.OutOrStdout(), container, year, domain.CacheKind(kind))
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Only entries of this year")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only entries of this kind")
	return cmd
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached entry, including submission history and tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(cmd, container, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}

// newCacheSizeCommand creates the 'cache size' subcommand
func newCacheSizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheSize(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheInvalidateCommand creates the 'cache invalidate' subcommand
func newCacheInvalidateCommand(container *app.Container) *cobra.Command {
	var (
		flags puzzleFlags
		part  int
	)
	cmd := &cobra.Command{
		Use:   "invalidate <kind>",
		Short: "Drop one cached entry of the active puzzle",
		Long:  "Drop one cached entry of the active puzzle. Kinds: text, input, answer, submission, test-set, performance.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			key := domain.CacheKey{Year: pc.Year, Day: pc.Day, Part: domain.Part(part), Kind: domain.CacheKind(args[0])}
			if err := container.CacheStore.Invalidate(key); err != nil {
				return fmt.Errorf("failed to invalidate %s: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s\n", key)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&part, "part", "p", 0, "Part for part-scoped kinds")
	return cmd
}

// listCacheEntries lists cache entries, optionally filtered
func listCacheEntries(out io.Writer, container *app.Container, year int, kind domain.CacheKind) error {
	if container.CacheStore == nil {
		return errors.New(ErrCacheStoreUnavailable)
	}

	entries, err := container.CacheStore.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	shown := 0
	for _, entry := range entries {
		if (year != 0 && entry.Year != year) || (kind != "" && entry.Kind != kind) {
			continue
		}
		fmt.Fprintf(out, "%s | %s | %s\n",
			entry.Key(),
			helpers.Bytes(int64(len(entry.Payload))),
			entry.StoredAt.Local().Format(domain.TimestampFormat))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, MsgNoCachedEntries)
	}
	return nil
}

// clearCache wipes the cache directory after confirmation
func clearCache(cmd *cobra.Command, container *app.Container, force bool) error {
	if container.CacheStore == nil {
		return errors.New(ErrCacheStoreUnavailable)
	}

	question := fmt.Sprintf("Delete everything under %s?", container.CacheStore.Dir())
	if !helpers.ConfirmDestructive(cmd.OutOrStdout(), cmd.InOrStdin(), force, question) {
		fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
		return nil
	}
	if err := container.CacheStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

// showCacheSize displays the cache directory size
func showCacheSize(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return errors.New(ErrCacheStoreUnavailable)
	}

	dir := container.CacheStore.Dir()
	totalSize, err := calculateDirectorySize(dir)
	if err != nil {
		return fmt.Errorf("failed to calculate cache size: %w", err)
	}

	fmt.Fprintf(out, "Cache directory: %s\nSize: %s\n", dir, helpers.Bytes(totalSize))
	return nil
}

// showCacheStats displays per-kind entry counts
func showCacheStats(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return errors.New(ErrCacheStoreUnavailable)
	}

	entries, err := container.CacheStore.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedEntries)
		return nil
	}

	counts := make(map[domain.CacheKind]int)
	years := make(map[int]struct{})
	for _, entry := range entries {
		counts[entry.Kind]++
		years[entry.Year] = struct{}{}
	}

	fmt.Fprintf(out, "Entries: %d across %d year(s)\n", len(entries), len(years))
	for _, kind := range domain.CacheKinds {
		if counts[kind] == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-12s %d\n", kind, counts[kind])
	}
	return nil
}

// calculateDirectorySize calculates the total size of a directory
func calculateDirectorySize(dirPath string) (int64, error) {
	var totalSize int64

	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip files that can't be accessed
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return totalSize, nil
}
