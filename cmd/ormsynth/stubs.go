package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ormsynth/internal/diag"
	"ormsynth/internal/program"
	"ormsynth/internal/source"
)

var stubsCmd = &cobra.Command{
	Use:   "stubs",
	Short: "Print the embedded ORM stubs",
	Long:  `Print the stub fixture loaded before every program, or with --modules the modules it declares`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modules, err := cmd.Flags().GetBool("modules")
		if err != nil {
			return fmt.Errorf("failed to get modules flag: %w", err)
		}
		out := cmd.OutOrStdout()
		if !modules {
			_, err := out.Write(program.StubsSource())
			return err
		}

		bag := diag.NewBag(20)
		mods, err := program.Stubs(source.NewFileSet(), diag.BagReporter{Bag: bag})
		if err != nil {
			return err
		}
		if bag.HasErrors() {
			return fmt.Errorf("embedded stubs are malformed: %s", bag.Items()[0].Message)
		}
		for _, m := range mods {
			fmt.Fprintf(out, "%s (%d statements)\n", m.Fullname, len(m.Defs))
		}
		return nil
	},
}

func init() {
	stubsCmd.Flags().Bool("modules", false, "list stub modules instead of printing the fixture")
}
