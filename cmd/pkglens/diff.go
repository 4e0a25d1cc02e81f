package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkglens/internal/config"
	"pkglens/internal/output"
	"pkglens/internal/snapshot"
)

var diffRootFlag string

var diffCmd = &cobra.Command{
	Use:   "diff <before-id> <after-id>",
	Short: "Compare two stored snapshots",
	Long: `Diff reports public-surface changes between two stored snapshots: exports
added, removed, or moved to another defining file, and files whose tier
changed. Used by CI staleness checks to decide when docs need regeneration.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(diffRootFlag)
		if err != nil {
			return err
		}
		store, err := snapshot.Open(diffRootFlag, newLogger(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		before, err := store.Load(args[0])
		if err != nil {
			return err
		}
		after, err := store.Load(args[1])
		if err != nil {
			return err
		}

		diff, err := snapshot.Compare(before, after)
		if err != nil {
			return err
		}
		data, err := output.DeterministicEncodeIndented(diff, "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffRootFlag, "root", ".", "Package root directory")
	rootCmd.AddCommand(diffCmd)
}
