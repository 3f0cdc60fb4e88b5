package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// assignment binds one inventory path to a proposed category label.
type assignment struct {
	Source   string
	Category string
}

// planItem accepts the two member shapes the oracle emits: a bare path
// string or an object with a "path" key.
type planItem struct {
	Path string
}

func (it *planItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		it.Path = s
		return nil
	}

	var obj struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Path != "" {
		it.Path = obj.Path
		return nil
	}

	return fmt.Errorf("plan item must be a path string or an object with a path key, got %s", data)
}

// planBody is the wire shape of one oracle reply.
type planBody struct {
	OrganizationPlan map[string][]planItem `json:"organization_plan"`
}

// parseResponses decodes every raw oracle reply and merges their assignments
// into one canonically ordered list. Any undecodable reply fails the whole
// parse: a half-understood plan is worse than no plan.
func parseResponses(raw []string) ([]assignment, error) {
	var all []assignment
	for i, body := range raw {
		plan, err := decodePlanBody(body)
		if err != nil {
			return nil, fmt.Errorf("%w: response %d: %v", ErrOracleResponseInvalid, i+1, err)
		}
		for category, items := range plan {
			for _, item := range items {
				all = append(all, assignment{Source: item.Path, Category: category})
			}
		}
	}

	// JSON object decoding loses key order, so a canonical sort is what
	// makes compilation deterministic for identical response bytes.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Source != all[j].Source {
			return all[i].Source < all[j].Source
		}
		return all[i].Category < all[j].Category
	})

	// Drop exact duplicates, which show up when batches overlap.
	deduped := all[:0]
	for i, a := range all {
		if i > 0 && a == all[i-1] {
			continue
		}
		deduped = append(deduped, a)
	}
	return deduped, nil
}

// decodePlanBody parses one oracle reply. Replies are requested as bare
// JSON, but models sometimes wrap them in markdown code fences; those are
// unwrapped and retried before giving up.
func decodePlanBody(body string) (map[string][]planItem, error) {
	plan, bareErr := decodePlanJSON(strings.TrimSpace(body))
	if bareErr == nil {
		return plan, nil
	}

	for _, block := range extractFencedBlocks([]byte(body)) {
		if block.lang != "" && block.lang != "json" {
			continue
		}
		if plan, err := decodePlanJSON(block.content); err == nil {
			return plan, nil
		}
	}

	return nil, bareErr
}

func decodePlanJSON(s string) (map[string][]planItem, error) {
	var body planBody
	if err := json.Unmarshal([]byte(s), &body); err != nil {
		return nil, err
	}
	if body.OrganizationPlan == nil {
		return nil, fmt.Errorf("missing organization_plan key")
	}
	return body.OrganizationPlan, nil
}

type fencedBlock struct {
	lang    string
	content string
}

// extractFencedBlocks walks the reply as markdown and collects fenced code
// blocks with their info string.
func extractFencedBlocks(source []byte) []fencedBlock {
	var blocks []fencedBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block fencedBlock
		if fenced.Info != nil {
			block.lang = strings.TrimSpace(string(fenced.Info.Text(source)))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	// Walk only fails when the walker itself errors, which ours never does.
	_ = ast.Walk(root, walker)

	return blocks
}
