package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loctree/loctree/assembler"
	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
	"github.com/loctree/loctree/snapshot"
	"github.com/loctree/loctree/suppress"
)

func loadSnapshot() (*model.Snapshot, error) {
	root := viper.GetString("root")
	snap, warning, err := snapshot.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load snapshot (run `loctree scan` first): %w", err)
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
	return snap, nil
}

func loadSuppressions() (*suppress.Index, error) {
	root := viper.GetString("root")
	entries, err := suppress.Load(root)
	if err != nil {
		return nil, err
	}
	return suppress.NewIndex(entries), nil
}

var impactDepth int
var impactIncludeReexports bool

var impactCmd = &cobra.Command{
	Use:   "impact <file>",
	Short: "Find files, direct and transitive, that depend on a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, err := query.Impact(snap, args[0], query.ImpactOptions{
			MaxDepth:         impactDepth,
			IncludeReexports: impactIncludeReexports,
		})
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

var sliceDepth int
var sliceIncludeConsumers bool

var sliceCmd = &cobra.Command{
	Use:   "slice <file>",
	Short: "Show the holographic context (core/deps/consumers) for one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, ok := query.Slice(snap, args[0], query.SliceConfig{
			MaxDepth:         sliceDepth,
			IncludeConsumers: sliceIncludeConsumers,
		})
		if !ok {
			return fmt.Errorf("file not found in snapshot: %s", args[0])
		}
		return writeResult(result)
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus <dir>",
	Short: "Show the holographic context for a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, ok := query.Focus(snap, args[0], query.SliceConfig{
			MaxDepth:         sliceDepth,
			IncludeConsumers: sliceIncludeConsumers,
		})
		if !ok {
			return fmt.Errorf("no files found under directory: %s", args[0])
		}
		return writeResult(result)
	},
}

var (
	deadIncludeTests      bool
	deadIncludeHelpers    bool
	deadIgnoreConventions bool
	deadWithAmbient       bool
)

var deadExportsCmd = &cobra.Command{
	Use:   "dead-exports",
	Short: "Find exported symbols with no detected consumer",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		idx, err := loadSuppressions()
		if err != nil {
			return err
		}
		result, err := query.FindDeadExports(snap, query.DeadFilterConfig{
			IncludeTests:      deadIncludeTests,
			IncludeHelpers:    deadIncludeHelpers,
			IgnoreConventions: deadIgnoreConventions,
			WithAmbient:       deadWithAmbient,
			Suppressions:      idx,
		})
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Find circular dependency chains, classified breaking vs lazy",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		return writeResult(query.FindCycles(snap))
	},
}

var barrelThreshold int

var twinsCmd = &cobra.Command{
	Use:   "twins",
	Short: "Find twin exports, dead parrots, and barrel hygiene issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result := map[string]any{
			"twins":        query.FindTwins(snap),
			"dead_parrots": query.FindDeadParrots(snap),
		}
		if !assembler.IsPureRustProject(snap.Files) {
			result["barrel_chaos"] = query.FindBarrelChaos(snap, barrelThreshold)
		}
		return writeResult(result)
	},
}

var (
	hotspotsMinImports int
	hotspotsLimit      int
	hotspotsLeavesOnly bool
	hotspotsCoupling   bool
)

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Rank files by import frequency (core vs peripheral)",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, err := query.Hotspots(snap, query.HotspotsOptions{
			MinImports: hotspotsMinImports,
			Limit:      hotspotsLimit,
			LeavesOnly: hotspotsLeavesOnly,
			Coupling:   hotspotsCoupling,
		})
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

var whoImportsCmd = &cobra.Command{
	Use:   "who-imports <file>",
	Short: "Find the files that directly import a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, err := query.WhoImports(snap, args[0])
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

var (
	layoutZIndexOnly bool
	layoutStickyOnly bool
	layoutGridOnly   bool
	layoutMinZIndex  int
)

var layoutMapCmd = &cobra.Command{
	Use:   "layout-map",
	Short: "Report CSS z-index/sticky-position/grid-or-flex layout declarations",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result := query.LayoutMap(snap, query.LayoutMapOptions{
			ZIndexOnly: layoutZIndexOnly,
			StickyOnly: layoutStickyOnly,
			GridOnly:   layoutGridOnly,
			MinZIndex:  layoutMinZIndex,
		})
		return writeResult(result)
	},
}

var whereSymbolCmd = &cobra.Command{
	Use:   "where-symbol <name>",
	Short: "Find where a symbol is exported",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		result, err := query.WhereSymbol(snap, args[0])
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

func init() {
	impactCmd.Flags().IntVar(&impactDepth, "max-depth", query.UnlimitedDepth, "maximum hop count (0 returns an empty result)")
	impactCmd.Flags().BoolVar(&impactIncludeReexports, "include-reexports", true, "follow reexport edges when computing impact")

	sliceCmd.Flags().IntVar(&sliceDepth, "max-depth", 2, "dependency BFS depth")
	sliceCmd.Flags().BoolVar(&sliceIncludeConsumers, "consumers", false, "include immediate consumers")
	focusCmd.Flags().IntVar(&sliceDepth, "max-depth", 2, "dependency BFS depth")
	focusCmd.Flags().BoolVar(&sliceIncludeConsumers, "consumers", false, "include immediate consumers")

	deadExportsCmd.Flags().BoolVar(&deadIncludeTests, "include-tests", false, "don't exclude test files")
	deadExportsCmd.Flags().BoolVar(&deadIncludeHelpers, "include-helpers", false, "don't exclude scripts/docs/tools paths")
	deadExportsCmd.Flags().BoolVar(&deadIgnoreConventions, "ignore-conventions", false, "don't exclude framework-convention names")
	deadExportsCmd.Flags().BoolVar(&deadWithAmbient, "with-ambient", false, "include ambient declarations")

	twinsCmd.Flags().IntVar(&barrelThreshold, "barrel-threshold", 3, "minimum external imports before a missing index.* is flagged")

	hotspotsCmd.Flags().IntVar(&hotspotsMinImports, "min-imports", 1, "minimum importer count to show")
	hotspotsCmd.Flags().IntVar(&hotspotsLimit, "limit", 50, "maximum files to show")
	hotspotsCmd.Flags().BoolVar(&hotspotsLeavesOnly, "leaves-only", false, "show only files with zero importers")
	hotspotsCmd.Flags().BoolVar(&hotspotsCoupling, "coupling", false, "also report each file's out-degree")

	layoutMapCmd.Flags().BoolVar(&layoutZIndexOnly, "zindex-only", false, "show only z-index declarations")
	layoutMapCmd.Flags().BoolVar(&layoutStickyOnly, "sticky-only", false, "show only sticky/fixed position declarations")
	layoutMapCmd.Flags().BoolVar(&layoutGridOnly, "grid-only", false, "show only grid/flex display declarations")
	layoutMapCmd.Flags().IntVar(&layoutMinZIndex, "min-zindex", 1, "minimum z-index value to report")

	rootCmd.AddCommand(impactCmd, sliceCmd, focusCmd, deadExportsCmd, cyclesCmd, twinsCmd, hotspotsCmd, whoImportsCmd, whereSymbolCmd, layoutMapCmd)
}
