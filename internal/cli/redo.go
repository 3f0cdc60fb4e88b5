package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/journal"
)

var redoYes bool

var redoCmd = &cobra.Command{
	Use:   "redo <directory>",
	Short: "Re-apply the last undone organization run",
	Long: `Read the redo record left behind by undo and move every item back to
its organized location. Entries whose restored location has since
changed are skipped. A fresh undo record is written so the run can be
reversed again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := jsonNeedsYes(redoYes); err != nil {
			return err
		}

		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		req := &engine.RedoRequest{Root: expandPath(args[0])}
		if !redoYes && !jsonOutput {
			req.Confirm = func(rec *journal.Record) bool {
				PrintInfo(fmt.Sprintf("↪️  Found %s to re-apply...", PrintCount(rec.Len(), "action", "actions")))
				displayRecord(rec)
				return promptConfirm("Proceed with redo?")
			}
		}

		result, err := eng.Redo(context.Background(), req)
		if err != nil {
			if errors.Is(err, engine.ErrConfirmationDeclined) {
				PrintInfo("Aborted by user.")
				return nil
			}
			return err
		}

		if jsonOutput {
			return outputJSON(reportJSON(result.Report))
		}

		PrintInfo("\n✅ Redo complete.")
		printReportIssues(result.Report)
		return nil
	},
}

func init() {
	redoCmd.Flags().BoolVarP(&redoYes, "yes", "y", false, "Skip confirmation and re-apply the run")
}
