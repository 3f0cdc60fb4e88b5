package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/journal"
)

var undoYes bool

var undoCmd = &cobra.Command{
	Use:   "undo <directory>",
	Short: "Reverse the last organization run",
	Long: `Read the undo record written by the last organize run and move every
item back to where it came from. Entries whose organized location has
since changed are skipped, and category folders left empty by the
reversal are removed. A redo record is written so the run can be
re-applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := jsonNeedsYes(undoYes); err != nil {
			return err
		}

		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		req := &engine.UndoRequest{Root: expandPath(args[0])}
		if !undoYes && !jsonOutput {
			req.Confirm = func(rec *journal.Record) bool {
				PrintInfo(fmt.Sprintf("↩️  Found %s to reverse...", PrintCount(rec.Len(), "action", "actions")))
				displayRecord(rec)
				return promptConfirm("Proceed with undo?")
			}
		}

		result, err := eng.Undo(context.Background(), req)
		if err != nil {
			if errors.Is(err, engine.ErrConfirmationDeclined) {
				PrintInfo("Aborted by user.")
				return nil
			}
			return err
		}

		if jsonOutput {
			out := reportJSON(result.Report)
			out["prunedDirs"] = result.PrunedDirs
			out["warnings"] = result.Warnings
			return outputJSON(out)
		}

		PrintInfo("\n✅ Undo complete.")
		printReportIssues(result.Report)
		if len(result.PrunedDirs) > 0 {
			PrintSubsection("Removed empty folders:")
			PrintList(result.PrunedDirs, 2)
		}
		for _, warning := range result.Warnings {
			PrintWarning(warning)
		}
		return nil
	},
}

func init() {
	undoCmd.Flags().BoolVarP(&undoYes, "yes", "y", false, "Skip confirmation and reverse the run")
}
