// Package extract parses raw provider output into named, pathed
// artifacts. The provider's output format is not guaranteed, so the
// extractor runs an ordered list of strategies - structured markers,
// path-comment sections, fenced blocks, bare declarations, JSON payloads -
// stopping at the first that yields anything, and falls back to treating
// the whole text as a single artifact. Extraction never fails for
// non-empty input.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"codeforge/internal/types"

	"go.uber.org/zap"
)

// Extractor turns raw generation output into artifacts.
type Extractor struct {
	strategies []Strategy
	log        *zap.Logger
}

// NewExtractor creates an Extractor with the fixed strategy order.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		strategies: []Strategy{
			markerStrategy{},
			pathCommentStrategy{},
			fencedBlockStrategy{},
			declarationStrategy{},
			jsonPayloadStrategy{},
		},
		log: log,
	}
}

// Extract parses rawText into artifacts. Strategies run in order; a
// strategy error is logged and the next one tried. If every strategy
// comes up empty the whole text becomes one artifact, so the result is
// never empty for non-empty input.
func (e *Extractor) Extract(rawText string, req types.GenerationRequest, scope types.ScopeDetection) []types.Artifact {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	entity := DetectEntity(req.Prompt)
	ectx := Context{
		Entity:   entity,
		Language: req.Language,
		Scope:    scope,
	}

	var artifacts []types.Artifact
	for _, s := range e.strategies {
		got, err := s.TryExtract(rawText, ectx)
		if err != nil {
			e.log.Warn("extraction strategy failed",
				zap.String("strategy", s.Name()),
				zap.Error(err))
			continue
		}
		if len(got) > 0 {
			e.log.Debug("extraction strategy matched",
				zap.String("strategy", s.Name()),
				zap.Int("artifacts", len(got)))
			artifacts = got
			break
		}
	}

	if len(artifacts) == 0 {
		artifacts = []types.Artifact{e.fallbackArtifact(rawText, ectx)}
	}

	NormalizeNames(artifacts, entity)
	ensureUniquePaths(artifacts)

	for i := range artifacts {
		artifacts[i].Dependencies = parseDependencies(artifacts[i].Body)
		artifacts[i].RefreshStats()
	}
	return artifacts
}

// FileRef is one pre-structured file handed over by a backend that
// already speaks in paths, bypassing the text strategies.
type FileRef struct {
	Path    string
	Content string
}

// FromFiles converts structured file payloads into artifacts. The text
// strategies are skipped; naming normalization, path dedup, and stats
// still apply so downstream stages see one uniform shape.
func (e *Extractor) FromFiles(files []FileRef, req types.GenerationRequest) []types.Artifact {
	entity := DetectEntity(req.Prompt)

	var artifacts []types.Artifact
	for _, f := range files {
		if f.Path == "" || strings.TrimSpace(f.Content) == "" {
			continue
		}
		artifacts = append(artifacts, types.Artifact{
			Name: nameForPath(f.Path),
			Type: typeForPath(f.Path),
			Path: f.Path,
			Body: f.Content,
		})
	}
	if len(artifacts) == 0 {
		return nil
	}

	NormalizeNames(artifacts, entity)
	ensureUniquePaths(artifacts)
	for i := range artifacts {
		artifacts[i].Dependencies = parseDependencies(artifacts[i].Body)
		artifacts[i].RefreshStats()
	}
	return artifacts
}

// fallbackArtifact wraps the entire raw text into one artifact named after
// the detected entity.
func (e *Extractor) fallbackArtifact(rawText string, ectx Context) types.Artifact {
	name := ectx.Entity
	if name == "" {
		name = DefaultEntityName
	}
	return types.Artifact{
		Name: name,
		Type: types.ArtifactComponent,
		Path: inferPath(name, ectx.Language),
		Body: strings.TrimSpace(StripFences(rawText)),
	}
}

// ensureUniquePaths renames path collisions in place by numbering the
// later occurrences before the extension. Colliding paths are a provider
// defect; delivery still requires every artifact to land somewhere.
func ensureUniquePaths(artifacts []types.Artifact) {
	seen := make(map[string]int, len(artifacts))
	for i := range artifacts {
		p := artifacts[i].Path
		seen[p]++
		if seen[p] == 1 {
			continue
		}
		ext := ""
		stem := p
		if dot := strings.LastIndexByte(p, '.'); dot > strings.LastIndexByte(p, '/') {
			stem, ext = p[:dot], p[dot:]
		}
		renamed := fmt.Sprintf("%s_%d%s", stem, seen[p], ext)
		artifacts[i].Path = renamed
		seen[renamed]++
	}
}

var (
	importRe  = regexp.MustCompile(`(?m)^[ \t]*import\b[^'"\n]*['"]([^'"\n]+)['"]`)
	requireRe = regexp.MustCompile(`require\(\s*['"]([^'"\n]+)['"]\s*\)`)
)

// parseDependencies collects external package names referenced by import
// or require statements. Relative imports are not dependencies.
func parseDependencies(body string) []string {
	var deps []string
	seen := make(map[string]bool)

	collect := func(matches [][]string) {
		for _, m := range matches {
			spec := m[1]
			if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
				continue
			}
			name := packageName(spec)
			if name != "" && !seen[name] {
				seen[name] = true
				deps = append(deps, name)
			}
		}
	}
	collect(importRe.FindAllStringSubmatch(body, -1))
	collect(requireRe.FindAllStringSubmatch(body, -1))
	return deps
}

// packageName reduces an import specifier to its package name: "react",
// "lodash/fp" -> "lodash", "@scope/pkg/sub" -> "@scope/pkg".
func packageName(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 {
			return spec
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
