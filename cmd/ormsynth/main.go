package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ormsynth/internal/version"
)

// errAnalysisFailed marks a run whose programs had errors; the report has
// already said why.
var errAnalysisFailed = errors.New("analysis reported errors")

var rootCmd = &cobra.Command{
	Use:   "ormsynth",
	Short: "Synthesize ORM manager classes for static analysis",
	Long: `ormsynth analyzes programs that build Django-style managers with
Manager.from_queryset(...) and QuerySet.as_manager(), synthesizes the
generated manager classes and reports the types analysis assigns to them`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupTracing(cmd); err != nil {
			return err
		}
		return setupProfiling(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
		stopTracing()
	},
}

// main wires the subcommands and global flags, then executes the root
// command. Analysis errors exit with status 1, usage and I/O failures with 2.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(stubsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per program")
	registerTraceFlags(rootCmd)
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime execution trace to this file")

	err := rootCmd.ExecuteContext(context.Background())
	stopProfiling()
	stopTracing()
	switch {
	case err == nil:
	case errors.Is(err, errAnalysisFailed):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "ormsynth: %v\n", err)
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := parseSwitch("color", flag)
	if err != nil {
		return false, err
	}
	return mode.enabled(os.Stdout), nil
}
