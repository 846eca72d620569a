package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notedex/notedex/internal/output"
	"github.com/notedex/notedex/internal/vault"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [dir]",
		Short: "Scan the vault and build the note index",
		Long: `Scan the vault directory, parse every Markdown note, and report
what was indexed. Unreadable or malformed notes are skipped with a
warning rather than aborting the scan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args)
		},
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	out := output.New(cmd.OutOrStdout())
	if len(args) > 0 {
		flagVaultDir = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := vault.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = v.Close() }()

	started := time.Now()
	if err := v.Rescan(cmd.Context()); err != nil {
		return fmt.Errorf("rescan failed: %w", err)
	}

	snap := v.Store().Snapshot()
	out.Successf("indexed %d notes in %s", snap.Len(), time.Since(started).Round(time.Millisecond))
	return nil
}
