package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loctree/loctree/scan"
	"github.com/loctree/loctree/snapshot"
	"github.com/loctree/loctree/walker"
)

var (
	scanUseGitignore bool
	scanScanAll      bool
	scanExtensions   []string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the workspace and persist a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := viper.GetString("root")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		opts := scan.Options{
			Walker: walker.Config{
				Extensions:   scanExtensions,
				UseGitignore: scanUseGitignore,
				ScanAll:      scanScanAll,
				ComputeHash:  true,
			},
		}

		snap, err := scan.Run(ctx, root, opts)
		if err != nil {
			return err
		}

		if err := snapshot.Save(root, snap); err != nil {
			return err
		}
		return writeResult(snap.Metadata)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanUseGitignore, "gitignore", true, "honor .gitignore patterns")
	scanCmd.Flags().BoolVar(&scanScanAll, "scan-all", false, "disable default-ignored directories (node_modules, target, ...)")
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "restrict to these file extensions (default: all recognized)")
	rootCmd.AddCommand(scanCmd)
}
