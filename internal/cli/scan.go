package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/scan"
)

var (
	scanMode      string
	scanRecursive bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List what an organize run would consider",
	Long: `Build the same inventory that organize would send to the model and print
it. Nothing is moved and no model is consulted. Hidden entries and the
undo record are excluded, exactly as during a real run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := scan.ParseMode(scanMode)
		if err != nil {
			return err
		}
		if mode == scan.ModeFolders && scanRecursive {
			PrintWarning("Recursive mode only applies to files; listing top-level folders only.")
			scanRecursive = false
		}

		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		result, err := eng.Scan(context.Background(), &engine.ScanRequest{
			Root:      expandPath(args[0]),
			Mode:      mode,
			Recursive: scanRecursive,
		})
		if err != nil {
			return err
		}
		inv := result.Inventory

		if jsonOutput {
			entries := make([]map[string]any, 0, len(inv.Entries))
			for _, entry := range inv.Entries {
				entries = append(entries, map[string]any{
					"path": entry.RelPath,
					"kind": string(entry.Kind),
					"size": entry.Size,
				})
			}
			warnings := make([]string, 0, len(inv.Warnings))
			for _, w := range inv.Warnings {
				warnings = append(warnings, fmt.Sprintf("%s: %s", w.RelPath, w.Reason))
			}
			return outputJSON(map[string]any{
				"root":     inv.Root,
				"mode":     string(inv.Mode),
				"entries":  entries,
				"warnings": warnings,
			})
		}

		PrintSection(fmt.Sprintf("Inventory of %s (%s mode)", inv.Root, inv.Mode))
		if len(inv.Entries) == 0 {
			PrintEmptyState("Nothing to organize here.")
		} else {
			rows := make([][]string, 0, len(inv.Entries))
			for _, entry := range inv.Entries {
				size := "-"
				if entry.Kind == scan.KindFile {
					size = fmt.Sprintf("%d", entry.Size)
				}
				rows = append(rows, []string{entry.RelPath, string(entry.Kind), size})
			}
			PrintTable([]string{"PATH", "KIND", "SIZE"}, rows)
			PrintInfo(fmt.Sprintf("\n%s found.", PrintCount(len(inv.Entries), "entry", "entries")))
		}
		for _, w := range inv.Warnings {
			PrintWarning(fmt.Sprintf("Skipped %s: %s", w.RelPath, w.Reason))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanMode, "mode", "m", "files", "Inventory 'files' or top-level 'folders'")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "Include files in all subdirectories (files mode only)")
}
