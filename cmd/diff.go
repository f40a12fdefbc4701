package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
	"github.com/loctree/loctree/snapshot"
)

var (
	diffFromRoot     string
	diffChangedFiles string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two snapshots and report risk for a set of changed files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if diffFromRoot == "" {
			return fmt.Errorf("--from is required (root of the earlier snapshot)")
		}
		from, _, err := snapshot.Load(diffFromRoot)
		if err != nil {
			return fmt.Errorf("load --from snapshot: %w", err)
		}
		to, err := loadSnapshot()
		if err != nil {
			return err
		}

		var changed []query.ChangedFile
		if diffChangedFiles != "" {
			data, err := os.ReadFile(diffChangedFiles)
			if err != nil {
				return fmt.Errorf("read --changed file: %w", err)
			}
			if err := json.Unmarshal(data, &changed); err != nil {
				return fmt.Errorf("parse --changed file: %w", err)
			}
		} else {
			changed = inferChangedFiles(from, to)
		}

		result, err := query.Compare(from, to, changed)
		if err != nil {
			return err
		}
		return writeResult(result)
	},
}

// inferChangedFiles is a fallback when the caller has no external git-diff
// collaborator wired up: it treats any path present in only one snapshot as
// added/removed, and anything with a different content hash as modified.
func inferChangedFiles(from, to *model.Snapshot) []query.ChangedFile {
	fromByPath := map[string]*model.FileAnalysis{}
	for i := range from.Files {
		fromByPath[from.Files[i].Path] = &from.Files[i]
	}
	toSeen := map[string]bool{}

	var out []query.ChangedFile
	for i := range to.Files {
		f := &to.Files[i]
		toSeen[f.Path] = true
		prev, existed := fromByPath[f.Path]
		switch {
		case !existed:
			out = append(out, query.ChangedFile{Path: f.Path, Kind: query.ChangeAdded})
		case prev.ContentHash != f.ContentHash:
			out = append(out, query.ChangedFile{Path: f.Path, Kind: query.ChangeModified})
		}
	}
	for path := range fromByPath {
		if !toSeen[path] {
			out = append(out, query.ChangedFile{Path: path, Kind: query.ChangeRemoved})
		}
	}
	return out
}

func init() {
	diffCmd.Flags().StringVar(&diffFromRoot, "from", "", "root directory of the earlier snapshot")
	diffCmd.Flags().StringVar(&diffChangedFiles, "changed", "", "path to a JSON array of {path,kind,old_path} changes (default: infer from content hashes)")
	_ = viper.BindPFlag("from", diffCmd.Flags().Lookup("from"))
	rootCmd.AddCommand(diffCmd)
}
