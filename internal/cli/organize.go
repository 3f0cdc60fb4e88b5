package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

var (
	organizeMode      string
	organizeRecursive bool
	organizeDryRun    bool
	organizeYes       bool
	organizeModel     string
)

var organizeCmd = &cobra.Command{
	Use:   "organize <directory>",
	Short: "Organize a directory with an AI-proposed plan",
	Long: `Scan a directory, ask the model for an organization plan, and apply it.

In files mode every regular file is sorted into a category folder. In folders
mode the top-level directories are grouped under parent folders. The plan is
shown for confirmation before anything moves, nothing is ever overwritten,
and every applied run writes an undo record next to the organized directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := scan.ParseMode(organizeMode)
		if err != nil {
			return err
		}
		if mode == scan.ModeFolders && organizeRecursive {
			PrintWarning("Recursive mode only applies to files; grouping top-level folders only.")
			organizeRecursive = false
		}
		if !organizeDryRun {
			if err := jsonNeedsYes(organizeYes); err != nil {
				return err
			}
		}

		eng, _, err := newEngine(organizeModel)
		if err != nil {
			return err
		}

		req := &engine.OrganizeRequest{
			Root:      expandPath(args[0]),
			Mode:      mode,
			Recursive: organizeRecursive,
			DryRun:    organizeDryRun,
		}
		if !organizeYes && !organizeDryRun && !jsonOutput {
			req.Confirm = func(inv *scan.Inventory, plan *planner.MovePlan) bool {
				if plan.IsEmpty() {
					return true
				}
				displayPlan(plan, inv.Len())
				return promptConfirm("Apply this plan?")
			}
		}

		result, err := eng.Organize(context.Background(), req)
		if err != nil {
			if errors.Is(err, engine.ErrConfirmationDeclined) {
				PrintInfo("Aborted by user.")
				return nil
			}
			return err
		}

		if jsonOutput {
			out := reportJSON(result.Report)
			if result.JournalPath != "" {
				out["journalPath"] = result.JournalPath
			}
			return outputJSON(out)
		}

		if organizeDryRun {
			displayPlan(result.Plan, result.Inventory.Len())
			PrintInfo("\n🏁 This was a DRY RUN. No items were moved.")
			return nil
		}

		if result.Plan.IsEmpty() {
			PrintInfo("The model proposed no moves. Nothing to do.")
			return nil
		}

		PrintSuccess(fmt.Sprintf("Done! Organized %s.", PrintCount(result.Report.Applied(), "item", "items")))
		printReportIssues(result.Report)
		if result.JournalPath != "" {
			PrintInfo(fmt.Sprintf("📝 Undo record saved. Run 'broom undo %s' to reverse this.", args[0]))
		}
		return nil
	},
}

func init() {
	organizeCmd.Flags().StringVarP(&organizeMode, "mode", "m", "files", "Organize 'files' or group 'folders'")
	organizeCmd.Flags().BoolVarP(&organizeRecursive, "recursive", "r", false, "Organize files in all subdirectories (files mode only)")
	organizeCmd.Flags().BoolVar(&organizeDryRun, "dry-run", false, "Show the plan without moving anything")
	organizeCmd.Flags().BoolVarP(&organizeYes, "yes", "y", false, "Skip confirmation and execute the plan")
	organizeCmd.Flags().StringVar(&organizeModel, "model", "", "Override the configured Ollama model")
}
