package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/broomkit/broom/internal/executor"
	"github.com/broomkit/broom/internal/journal"
	"github.com/broomkit/broom/internal/planner"
	"github.com/broomkit/broom/internal/scan"
)

// displayPlan renders the compiled plan grouped by destination folder, the
// way users see it before confirming. totalEntries is the inventory size,
// used in folders mode to report how much stays in place.
func displayPlan(plan *planner.MovePlan, totalEntries int) {
	fmt.Println("\n✨ Here is the proposed organization plan:")
	fmt.Println(strings.Repeat("─", 40))

	groups := make(map[string][]string)
	for _, op := range plan.Operations {
		category := filepath.Dir(op.Destination)
		groups[category] = append(groups[category], op.Source)
	}
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	if plan.Mode == scan.ModeFolders {
		for _, category := range categories {
			fmt.Printf("📁 Create parent folder: '%s'\n", category)
			members := groups[category]
			sort.Strings(members)
			for _, member := range members {
				fmt.Printf("    └── Move folder '%s' into it\n", member)
			}
		}
		if left := totalEntries - plan.Len(); left > 0 {
			fmt.Printf("\n👉 %d folders will be left as they are.\n", left)
		}
	} else {
		for _, category := range categories {
			fmt.Printf("📁 Create folder: '%s'\n", category)
			sources := groups[category]
			sort.Strings(sources)
			shown := sources
			if len(shown) > 5 {
				shown = shown[:5]
			}
			for _, source := range shown {
				fmt.Printf("    └── Move '%s'\n", source)
			}
			if len(sources) > 5 {
				fmt.Printf("    └── and %d more...\n", len(sources)-5)
			}
		}
	}
	fmt.Println(strings.Repeat("─", 40))

	if len(plan.Decisions) > 0 {
		PrintSubsection("Adjustments:")
		notes := make([]string, 0, len(plan.Decisions))
		for _, d := range plan.Decisions {
			notes = append(notes, fmt.Sprintf("%s: %s", d.Path, d.Note))
		}
		PrintList(notes, 1)
	}
}

// displayRecord summarizes a journal record before a replay.
func displayRecord(rec *journal.Record) {
	PrintLabelValue("Run", rec.RunID)
	PrintLabelValue("Mode", rec.Mode)
	PrintLabelValue("Recorded", rec.RecordedAt.Format(time.RFC3339))
	PrintLabelValue("Moves", fmt.Sprintf("%d", rec.Len()))
}

// printReportIssues lists skipped and failed operations with reasons, and
// where diverted entries really landed.
func printReportIssues(report *executor.Report) {
	for _, res := range report.Results {
		switch res.Status {
		case executor.StatusSkipped:
			PrintWarning(fmt.Sprintf("Skipped '%s': %s", res.Source, res.Reason))
		case executor.StatusFailed:
			PrintError(fmt.Sprintf("Failed '%s': %s", res.Source, res.Reason))
		case executor.StatusApplied:
			if res.Diverted() {
				PrintInfo(fmt.Sprintf("  '%s' landed at '%s' (planned spot was taken)", res.Source, res.FinalPath))
			}
		}
	}
}

// reportJSON is the wire shape shared by the mutating commands in JSON mode.
func reportJSON(report *executor.Report) map[string]any {
	return map[string]any{
		"runId":   report.RunID,
		"root":    report.Root,
		"mode":    report.Mode,
		"dryRun":  report.DryRun,
		"applied": report.Applied(),
		"skipped": report.Skipped(),
		"failed":  report.Failed(),
		"results": report.Results,
	}
}
