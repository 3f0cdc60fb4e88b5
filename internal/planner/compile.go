package planner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/broomkit/broom/internal/fsops"
	"github.com/broomkit/broom/internal/scan"
)

// StandaloneCategory is the folder-mode bucket for folders the oracle could
// not group. Its members stay where they are.
const StandaloneCategory = "_standalone"

// Compile turns raw oracle replies into a validated MovePlan for the given
// inventory. Entries the oracle did not mention are left unassigned and
// excluded from the plan. Compilation is pure: identical inventory and
// responses always produce an identical plan.
func Compile(inv *scan.Inventory, rawResponses []string, runID string, createdAt time.Time) (*MovePlan, error) {
	assignments, err := parseResponses(rawResponses)
	if err != nil {
		return nil, err
	}

	plan := &MovePlan{
		RunID:     runID,
		Root:      inv.Root,
		Mode:      inv.Mode,
		CreatedAt: createdAt,
	}

	if inv.Mode == scan.ModeFolders {
		assignments = applyGroupRules(assignments, plan)
	}

	ops, err := buildOperations(inv, assignments, plan)
	if err != nil {
		return nil, err
	}

	disambiguateDestinations(ops, plan)

	if err := validateOperations(ops); err != nil {
		return nil, err
	}

	orderOperations(ops)
	plan.Operations = ops
	return plan, nil
}

// applyGroupRules enforces the folder-mode grouping contract: a parent must
// not equal any of its members, and a group needs at least two members to be
// worth creating. Violations demote members to the standalone bucket, whose
// contents are never moved.
func applyGroupRules(assignments []assignment, plan *MovePlan) []assignment {
	groups := make(map[string][]string)
	for _, a := range assignments {
		groups[a.Category] = append(groups[a.Category], a.Source)
	}

	categories := make([]string, 0, len(groups))
	for category := range groups {
		if category != StandaloneCategory {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	var kept []assignment
	for _, category := range categories {
		var members []string
		for _, member := range groups[category] {
			if member == category {
				plan.Decisions = append(plan.Decisions, Decision{
					Path: member,
					Note: fmt.Sprintf("group %q cannot contain itself, dropped", category),
				})
				continue
			}
			members = append(members, member)
		}

		if len(members) < 2 {
			for _, member := range members {
				plan.Decisions = append(plan.Decisions, Decision{
					Path: member,
					Note: fmt.Sprintf("group %q has fewer than two members, leaving in place", category),
				})
			}
			continue
		}

		for _, member := range members {
			kept = append(kept, assignment{Source: member, Category: category})
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Source != kept[j].Source {
			return kept[i].Source < kept[j].Source
		}
		return kept[i].Category < kept[j].Category
	})
	return kept
}

// buildOperations resolves assignments into move operations, rejecting
// hallucinated sources and unsafe category labels.
func buildOperations(inv *scan.Inventory, assignments []assignment, plan *MovePlan) ([]Operation, error) {
	assigned := make(map[string]string)
	ops := make([]Operation, 0, len(assignments))

	for _, a := range assignments {
		if prior, ok := assigned[a.Source]; ok {
			plan.Decisions = append(plan.Decisions, Decision{
				Path: a.Source,
				Note: fmt.Sprintf("already assigned to %q, ignoring %q", prior, a.Category),
			})
			continue
		}

		entry, ok := inv.Lookup(a.Source)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the scanned inventory", ErrUnknownEntry, a.Source)
		}

		category := filepath.Clean(strings.TrimSpace(a.Category))
		if err := fsops.ValidateRelPath(category); err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", ErrInvalidPath, a.Category, err)
		}

		destination := filepath.Join(category, filepath.Base(a.Source))
		assigned[a.Source] = category

		if destination == a.Source {
			plan.Decisions = append(plan.Decisions, Decision{
				Path: a.Source,
				Note: fmt.Sprintf("already at %q, nothing to move", destination),
			})
			continue
		}

		ops = append(ops, Operation{
			Source:      a.Source,
			Destination: destination,
			Kind:        entry.Kind,
		})
	}

	return ops, nil
}

// disambiguateDestinations resolves destination collisions by appending a
// numeric suffix before the extension. The first operation in canonical
// order keeps the clean name. Collisions are compiler decisions, not errors.
func disambiguateDestinations(ops []Operation, plan *MovePlan) {
	taken := make(map[string]bool, len(ops))
	for i := range ops {
		dest := ops[i].Destination
		if !taken[dest] {
			taken[dest] = true
			continue
		}

		unique := NextFreeDestination(dest, func(candidate string) bool {
			return taken[candidate]
		})
		plan.Decisions = append(plan.Decisions, Decision{
			Path: ops[i].Source,
			Note: fmt.Sprintf("destination %q taken, using %q", dest, unique),
		})
		ops[i].Destination = unique
		taken[unique] = true
	}
}

// NextFreeDestination appends _1, _2, ... before the extension until the
// candidate is free. The same rule runs at execution time against the live
// directory, so compile-time and execution-time names agree in shape.
func NextFreeDestination(dest string, occupied func(string) bool) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !occupied(candidate) {
			return candidate
		}
	}
}

// validateOperations enforces the plan invariants that keep execution
// unambiguous: every path stays inside the root, and no destination is a
// strict prefix of another operation's source or destination.
func validateOperations(ops []Operation) error {
	for _, op := range ops {
		if err := fsops.ValidateRelPath(op.Destination); err != nil {
			return fmt.Errorf("%w: destination %q: %v", ErrInvalidPath, op.Destination, err)
		}
		if isPathPrefix(op.Source, op.Destination) {
			return fmt.Errorf("%w: %q would move into itself at %q", ErrCycle, op.Source, op.Destination)
		}
	}

	for i := range ops {
		for j := range ops {
			if i == j {
				continue
			}
			if isPathPrefix(ops[i].Destination, ops[j].Source) {
				return fmt.Errorf("%w: destination %q shadows source %q", ErrCycle, ops[i].Destination, ops[j].Source)
			}
			if isPathPrefix(ops[i].Destination, ops[j].Destination) {
				return fmt.Errorf("%w: destination %q shadows destination %q", ErrCycle, ops[i].Destination, ops[j].Destination)
			}
		}
	}

	return nil
}

// isPathPrefix reports whether prefix is a strict path-component prefix of
// path. Equal paths are not prefixes of each other.
func isPathPrefix(prefix, path string) bool {
	return path != prefix && strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// orderOperations sorts so destination parents are populated shallow first;
// ties break on source path for a stable, reproducible plan.
func orderOperations(ops []Operation) {
	sort.Slice(ops, func(i, j int) bool {
		depthI := destinationDepth(ops[i].Destination)
		depthJ := destinationDepth(ops[j].Destination)
		if depthI != depthJ {
			return depthI < depthJ // Shallower destination parents first
		}
		return ops[i].Source < ops[j].Source // Alphabetically for same depth
	})
}

// destinationDepth counts the components of the destination's parent
// directory.
func destinationDepth(dest string) int {
	dir := filepath.Dir(dest)
	if dir == "." {
		return 0
	}
	return strings.Count(dir, string(filepath.Separator)) + 1
}
