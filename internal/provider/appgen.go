package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FileSpec is one file emitted by the multi-file sub-generator.
type FileSpec struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// AppGenerator is the specialized sub-generator for the fullstack tier.
// It asks the backend for a structured {"files": [...]} payload; when the
// backend complies, the files bypass text extraction entirely.
type AppGenerator struct {
	client LLMClient
}

// NewAppGenerator wraps a client in the multi-file generation protocol.
func NewAppGenerator(client LLMClient) *AppGenerator {
	return &AppGenerator{client: client}
}

const appGenContract = `
Respond with a single JSON object and nothing else. The object must have
one key "files", an array of {"path": string, "content": string} entries.
Every file must be complete and runnable; no placeholders, no ellipses.`

// Generate runs the structured protocol. On success the parsed files are
// returned; when the backend returns text that does not parse as the
// files payload, the raw text is handed back instead so the extractor can
// take over. Only transport failures are errors.
func (g *AppGenerator) Generate(ctx context.Context, instruction string, opts Options) ([]FileSpec, string, error) {
	raw, err := g.client.Complete(ctx, instruction+"\n"+appGenContract, opts)
	if err != nil {
		return nil, "", fmt.Errorf("app generator: %w", err)
	}

	if files := parseFilesPayload(raw); len(files) > 0 {
		return files, "", nil
	}
	return nil, raw, nil
}

// parseFilesPayload extracts the {"files": [...]} shape from a response,
// tolerating markdown fencing around the JSON.
func parseFilesPayload(raw string) []FileSpec {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var payload struct {
		Files []FileSpec `json:"files"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil
	}

	files := make([]FileSpec, 0, len(payload.Files))
	for _, f := range payload.Files {
		if f.Path != "" && strings.TrimSpace(f.Content) != "" {
			files = append(files, f)
		}
	}
	return files
}
