package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the report cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(cacheDirFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(cacheDirFlag)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
		}
		return nil
	},
}

var cacheDirFlag string

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/ormsynth)")
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
