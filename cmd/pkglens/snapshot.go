package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkglens/internal/config"
	"pkglens/internal/output"
	"pkglens/internal/snapshot"
)

var (
	snapshotRootFlag string
	snapshotPkgFlag  string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored analysis snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots for a package",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(snapshotRootFlag)
		if err != nil {
			return err
		}
		store, err := snapshot.Open(snapshotRootFlag, newLogger(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		metas, err := store.List(snapshotPkgFlag)
		if err != nil {
			return err
		}
		data, err := output.DeterministicEncodeIndented(metas, "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(snapshotRootFlag)
		if err != nil {
			return err
		}
		store, err := snapshot.Open(snapshotRootFlag, newLogger(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		raw, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&snapshotRootFlag, "root", ".", "Package root directory")
	snapshotCmd.PersistentFlags().StringVar(&snapshotPkgFlag, "package", "", "Package name filter")
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	rootCmd.AddCommand(snapshotCmd)
}
