package oracle

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/broomkit/broom/internal/scan"
)

// Prompt prefixes the deployed models were tuned against. The wording is
// part of the oracle contract: changing it changes what comes back.
const (
	filesPromptPrefix = "Task: Categorize files based on path, file_type, and content. " +
		"Output ONLY JSON with one key 'organization_plan'. Data: "

	foldersPromptPrefix = "Task: Group folders into parent categories. Rules: " +
		"1. A group MUST contain 2 or more folders. " +
		"2. A parent category's name MUST NOT be the same as any of the folders inside it. " +
		"3. Ungroupable folders go into a special category named '_standalone'. " +
		"4. Output ONLY JSON with a single key 'organization_plan'. Data: "
)

// filePayload is the per-file JSON the files prompt embeds.
type filePayload struct {
	Path           string `json:"path"`
	FileType       string `json:"file_type"`
	ContentSummary string `json:"content_summary"`
}

// folderPayload is the per-folder JSON the folders prompt embeds.
type folderPayload struct {
	FolderName string `json:"folder_name"`
}

// buildPrompts turns a request into one prompt per batch. Files mode splits
// the entries into batchSize chunks; folders mode is always one prompt.
func buildPrompts(req Request, batchSize int) ([]string, error) {
	if len(req.Entries) == 0 {
		return nil, nil
	}

	switch req.Mode {
	case scan.ModeFolders:
		prompt, err := foldersPrompt(req.Entries)
		if err != nil {
			return nil, err
		}
		return []string{prompt}, nil
	case scan.ModeFiles:
		var prompts []string
		for _, chunk := range chunkEntries(req.Entries, batchSize) {
			prompt, err := filesPrompt(chunk)
			if err != nil {
				return nil, err
			}
			prompts = append(prompts, prompt)
		}
		return prompts, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
}

func filesPrompt(entries []EntryInfo) (string, error) {
	payload := make([]filePayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, filePayload{
			Path:           entry.RelativePath,
			FileType:       strings.ToLower(filepath.Ext(entry.RelativePath)),
			ContentSummary: entry.ContentSummary,
		})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode file payload: %w", err)
	}
	return filesPromptPrefix + string(data), nil
}

func foldersPrompt(entries []EntryInfo) (string, error) {
	payload := make([]folderPayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, folderPayload{FolderName: entry.RelativePath})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode folder payload: %w", err)
	}
	return foldersPromptPrefix + string(data), nil
}

func chunkEntries(entries []EntryInfo, size int) [][]EntryInfo {
	if size <= 0 {
		size = len(entries)
	}
	var chunks [][]EntryInfo
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}
