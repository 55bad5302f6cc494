package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/user/codechat/internal/config"
	"github.com/user/codechat/internal/filecache"
	"github.com/user/codechat/internal/logging"
	"github.com/user/codechat/internal/scanner"
)

var (
	scanStrategy string
	scanStats    bool
	scanManifest bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a codebase and report what would be sent as context",
	Long: `Walk a directory, apply the configured filters, and report the files
that would be assembled into AI context. Use --stats for a summary without
reading any content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanStrategy, "strategy", "auto", "Scan strategy: auto, eager or lazy")
	scanCmd.Flags().BoolVar(&scanStats, "stats", false, "Print directory statistics only")
	scanCmd.Flags().BoolVar(&scanManifest, "manifest", false, "List every included file")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := loadConfig(".", nil)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rules, err := filterRulesFrom(cfg, root)
	if err != nil {
		return err
	}

	if scanStats {
		return printDirectoryStats(root, rules)
	}

	result, strategy, cacheStats, err := runScanWithStrategy(cmd.Context(), cfg, root, rules)
	if err != nil {
		return err
	}

	logger.Info("scan completed",
		logging.String("root", root),
		logging.String("strategy", string(strategy)),
		logging.Int("files", len(result.Files)),
		logging.Int64("bytes", result.TotalBytes),
	)

	pterm.Success.Printfln("Scanned %d files (%d bytes) using the %s scanner", len(result.Files), result.TotalBytes, strategy)
	if result.Truncated {
		pterm.Warning.Println("Some content was omitted or replaced (binary or over limits)")
	}
	for _, skipped := range result.Skipped {
		pterm.Debug.Printfln("skipped %s: %s", skipped.RelPath, skipped.Reason)
	}
	if cacheStats != nil {
		pterm.Info.Printfln("Cache: %d hits, %d misses, %d evictions, %d entries (%d bytes)",
			cacheStats.Hits, cacheStats.Misses, cacheStats.Evictions, cacheStats.CurrentEntries, cacheStats.CurrentBytes)
	}
	if scanManifest {
		for _, entry := range result.Files {
			fmt.Printf("%s\t%d\n", entry.RelPath, entry.SizeBytes)
		}
	}
	return nil
}

// runScanWithStrategy resolves the strategy (flag or selector heuristic) and
// executes the scan, wiring a progress bar for lazy scans.
func runScanWithStrategy(ctx context.Context, cfg *config.Config, root string, rules scanner.FilterRules) (*scanner.ScanResult, scanner.Strategy, *filecache.Stats, error) {
	strategy := scanner.Strategy(scanStrategy)
	if scanStrategy == "auto" {
		selector := scanner.NewSelector(scanner.SelectorThresholds{
			MaxEagerFiles: cfg.Scan.MaxEagerFiles,
			MaxEagerBytes: cfg.Scan.MaxEagerBytes,
			MaxEagerDepth: cfg.Scan.MaxEagerDepth,
		})
		strategy = selector.Choose(root, rules)
	}

	switch strategy {
	case scanner.StrategyEager:
		result, err := scanner.NewEagerScanner().Scan(root, rules)
		return result, strategy, nil, err

	case scanner.StrategyLazy:
		cache := filecache.New(cfg.Scan.CacheMaxEntries, cfg.Scan.CacheMaxBytes)

		var bar *pterm.ProgressbarPrinter
		progress := func(p scanner.Progress) {
			if bar == nil && p.FilesEstimate > 0 {
				bar, _ = pterm.DefaultProgressbar.WithTotal(p.FilesEstimate).WithTitle("Scanning").Start()
			}
			if bar != nil {
				bar.Current = p.FilesScanned
				bar.UpdateTitle(fmt.Sprintf("Scanning (%d bytes)", p.BytesScanned))
			}
		}

		lazy := scanner.NewLazyScanner(cache, scanner.WithProgress(progress))

		ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer cancel()

		result, err := lazy.ScanContext(ctx, root, rules)
		if bar != nil {
			_, _ = bar.Stop()
		}
		if err != nil {
			return nil, strategy, nil, err
		}
		stats := cache.Stats()
		return result, strategy, &stats, nil

	default:
		return nil, strategy, nil, fmt.Errorf("unknown scan strategy %q (use auto, eager or lazy)", scanStrategy)
	}
}

func printDirectoryStats(root string, rules scanner.FilterRules) error {
	stats, err := scanner.CollectStats(root, rules)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("%d files, %d bytes total", stats.TotalFiles, stats.TotalBytes)

	exts := make([]string, 0, len(stats.ByExtension))
	for ext := range stats.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Printf("  %-12s %d\n", ext, stats.ByExtension[ext])
	}
	if len(stats.LargestFiles) > 0 {
		pterm.Info.Println("Largest files:")
		for _, entry := range stats.LargestFiles {
			fmt.Printf("  %-50s %d\n", entry.RelPath, entry.SizeBytes)
		}
	}
	return nil
}
