package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ormsynth/internal/cache"
	"ormsynth/internal/config"
	"ormsynth/internal/diag"
	"ormsynth/internal/driver"
	"ormsynth/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <program.toml|directory>...",
	Short: "Analyze programs and report synthesized managers",
	Long: `Analyze loads each program fixture on top of the embedded ORM stubs, runs
semantic analysis to a fixpoint with the manager and request plugins, and
reports generated classes, registry entries, inferred types and diagnostics.
Directories contribute every *.toml file below them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "text", "output format (text|json)")
	analyzeCmd.Flags().String("config", "", "configuration file (default: "+config.FileName+" found upward from the working directory)")
	analyzeCmd.Flags().Int("jobs", 0, "max programs analyzed in parallel (0=auto)")
	analyzeCmd.Flags().Bool("cache", false, "reuse reports from the disk cache")
	analyzeCmd.Flags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/ormsynth)")
	analyzeCmd.Flags().Bool("show-info", false, "include info diagnostics such as revealed types")
	analyzeCmd.Flags().Int("width", 0, "truncate text output to this many columns (0=unlimited)")
	analyzeCmd.Flags().String("ui", "auto", "show progress UI (auto|on|off)")
}

// runAnalyze resolves the configuration and program list, analyzes the
// programs and writes the report. It returns errAnalysisFailed when any
// program has errors.
func runAnalyze(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	flags := cmd.Flags()
	formatFlag, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := flags.GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	cacheDir, err := flags.GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	showInfo, err := flags.GetBool("show-info")
	if err != nil {
		return fmt.Errorf("failed to get show-info flag: %w", err)
	}
	width, err := flags.GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := parseSwitch("ui", uiFlag)
	if err != nil {
		return err
	}

	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", diag.CfgInvalid.ID(), err)
	}

	files, err := driver.ListPrograms(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no programs found in %v", args)
	}

	opts := driver.Options{
		Config:         cfg,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
	}
	if useCache {
		if opts.Cache, err = openCache(cacheDir); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	var snaps []*driver.Snapshot
	tui := format == report.FormatText && !quiet && mode.enabled(os.Stdout)
	if tui {
		snaps, err = runAnalyzeWithUI(cmd.Context(), "ormsynth analyze", files, opts)
	} else {
		snaps, err = driver.AnalyzeFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), format, snaps, report.Options{
		Color:    colored,
		Width:    width,
		ShowInfo: showInfo,
		Timings:  showTimings,
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if report.Summarize(snaps).Errors > 0 {
		return errAnalysisFailed
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, _, err := config.Discover(wd)
	return cfg, err
}

func openCache(dir string) (*cache.Cache, error) {
	if dir != "" {
		return cache.OpenDir(dir)
	}
	return cache.Open("ormsynth")
}
