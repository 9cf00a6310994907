package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ormsynth/internal/prof"
)

var profileSession *prof.Session

func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return err
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return err
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return err
	}
	if opts == (prof.Options{}) {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("start profiling: %w", err)
	}
	profileSession = s
	return nil
}

func stopProfiling() {
	if profileSession == nil {
		return
	}
	if err := profileSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "ormsynth: profiling: %v\n", err)
	}
	profileSession = nil
}
