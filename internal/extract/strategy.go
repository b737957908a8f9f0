package extract

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"codeforge/internal/types"
)

// Context carries the request-derived hints a strategy may use when a
// block arrives without a name or path of its own.
type Context struct {
	Entity   string
	Language string
	Scope    types.ScopeDetection
}

// Strategy is one algorithm for splitting a raw provider response into
// artifacts. Strategies are tried in fixed order; the first one that
// yields at least one artifact wins. A strategy signals "not applicable"
// by returning an empty slice, and may return an error without aborting
// extraction - the extractor swallows it and moves on.
type Strategy interface {
	Name() string
	TryExtract(raw string, ectx Context) ([]types.Artifact, error)
}

// ---------------------------------------------------------------------------
// Strategy 1: explicit marker format
// ---------------------------------------------------------------------------

// markerRe matches the structured output contract the composer asks the
// provider for: component:<name>:<lang>:<path> on its own line.
var markerRe = regexp.MustCompile(`(?m)^component:([A-Za-z0-9_.-]+):([A-Za-z0-9+-]+):(\S+)[ \t]*$`)

type markerStrategy struct{}

func (markerStrategy) Name() string { return "marker" }

func (markerStrategy) TryExtract(raw string, ectx Context) ([]types.Artifact, error) {
	locs := markerRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	var artifacts []types.Artifact
	for i, loc := range locs {
		bodyStart := loc[1]
		bodyEnd := len(raw)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}

		name := raw[loc[2]:loc[3]]
		relPath := raw[loc[6]:loc[7]]
		body := strings.TrimSpace(StripFences(raw[bodyStart:bodyEnd]))
		if body == "" {
			continue
		}

		artifacts = append(artifacts, types.Artifact{
			Name: name,
			Type: typeForPath(relPath),
			Path: relPath,
			Body: body,
		})
	}
	return artifacts, nil
}

// ---------------------------------------------------------------------------
// Strategy 2: path-comment sections
// ---------------------------------------------------------------------------

// pathCommentRe matches a comment line whose payload looks like a relative
// file path (must contain a slash and an extension).
var pathCommentRe = regexp.MustCompile(`(?m)^[ \t]*(?://|#|--|/\*|<!--)[ \t]*([\w@.-]+(?:/[\w@.-]+)+\.[A-Za-z0-9]{1,6})`)

type pathCommentStrategy struct{}

func (pathCommentStrategy) Name() string { return "path-comment" }

func (pathCommentStrategy) TryExtract(raw string, ectx Context) ([]types.Artifact, error) {
	locs := pathCommentRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	var artifacts []types.Artifact
	for i, loc := range locs {
		sectionStart := loc[1]
		sectionEnd := len(raw)
		if i+1 < len(locs) {
			sectionEnd = locs[i+1][0]
		}

		relPath := raw[loc[2]:loc[3]]
		body := strings.TrimSpace(StripFences(raw[sectionStart:sectionEnd]))
		// Drop a trailing comment terminator left over from /* path */ style.
		body = strings.TrimPrefix(body, "*/")
		body = strings.TrimPrefix(body, "-->")
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}

		artifacts = append(artifacts, types.Artifact{
			Name: nameForPath(relPath),
			Type: typeForPath(relPath),
			Path: relPath,
			Body: body,
		})
	}
	return artifacts, nil
}

// ---------------------------------------------------------------------------
// Strategy 3: fenced code blocks
// ---------------------------------------------------------------------------

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9+-]*)[ \t]*\r?\n(.*?)```")

type fencedBlockStrategy struct{}

func (fencedBlockStrategy) Name() string { return "fenced-block" }

func (fencedBlockStrategy) TryExtract(raw string, ectx Context) ([]types.Artifact, error) {
	locs := fenceRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	var artifacts []types.Artifact
	undecorated := 0
	prevEnd := 0
	for _, loc := range locs {
		body := strings.TrimSpace(raw[loc[4]:loc[5]])
		if body == "" {
			prevEnd = loc[1]
			continue
		}

		relPath := ""
		// A path comment on the line right before the fence decorates the
		// block; so does one on the block's own first line.
		if m := lastLinePath(raw[prevEnd:loc[0]]); m != "" {
			relPath = m
		} else if m := pathCommentRe.FindStringSubmatch(firstLine(body)); m != nil {
			relPath = m[1]
			body = strings.TrimSpace(strings.TrimPrefix(body, firstLine(body)))
		}
		prevEnd = loc[1]
		if body == "" {
			continue
		}

		if relPath != "" {
			artifacts = append(artifacts, types.Artifact{
				Name: nameForPath(relPath),
				Type: typeForPath(relPath),
				Path: relPath,
				Body: body,
			})
			continue
		}

		// Undecorated block: name it from the detected entity.
		undecorated++
		name := ectx.Entity
		if name == "" {
			name = DefaultEntityName
		}
		if undecorated > 1 {
			name = fmt.Sprintf("%s%d", name, undecorated)
		}
		artifacts = append(artifacts, types.Artifact{
			Name: name,
			Type: types.ArtifactComponent,
			Path: inferPath(name, ectx.Language),
			Body: body,
		})
	}
	return artifacts, nil
}

// lastLinePath returns the path if the last non-empty line of s is a path
// comment, "" otherwise.
func lastLinePath(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := pathCommentRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return ""
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ---------------------------------------------------------------------------
// Strategy 4: bare top-level declaration boundaries
// ---------------------------------------------------------------------------

var declRe = regexp.MustCompile(`(?m)^(?:export[ \t]+)?(?:default[ \t]+)?(?:async[ \t]+)?(?:function|class|interface|const|type)[ \t]+([A-Z][A-Za-z0-9_]*)`)

type declarationStrategy struct{}

func (declarationStrategy) Name() string { return "declaration" }

func (declarationStrategy) TryExtract(raw string, ectx Context) ([]types.Artifact, error) {
	trimmed := strings.TrimSpace(raw)
	// Structured payloads are not source text; leave them to the JSON
	// strategy so it can bypass text splitting entirely.
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return nil, nil
	}

	locs := declRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	if len(locs) == 1 {
		name := raw[locs[0][2]:locs[0][3]]
		return []types.Artifact{{
			Name: name,
			Type: types.ArtifactComponent,
			Path: inferPath(name, ectx.Language),
			Body: strings.TrimSpace(raw),
		}}, nil
	}

	var artifacts []types.Artifact
	for i, loc := range locs {
		start := loc[0]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		name := raw[loc[2]:loc[3]]
		artifacts = append(artifacts, types.Artifact{
			Name: name,
			Type: types.ArtifactComponent,
			Path: inferPath(name, ectx.Language),
			Body: strings.TrimSpace(raw[start:end]),
		})
	}
	return artifacts, nil
}

// ---------------------------------------------------------------------------
// Strategy 5: structured JSON payload
// ---------------------------------------------------------------------------

// payloadKey describes how one recognized top-level key maps to files.
type payloadKey struct {
	dir      string
	filename string // used when the value is a plain string
	atype    types.ArtifactType
}

var recognizedKeys = map[string]payloadKey{
	"server":      {dir: "server", filename: "server.js", atype: types.ArtifactService},
	"app":         {dir: "src", filename: "App.tsx", atype: types.ArtifactComponent},
	"index":       {dir: "src", filename: "index.tsx", atype: types.ArtifactConfig},
	"controllers": {dir: "server/controllers", atype: types.ArtifactService},
	"services":    {dir: "src/services", atype: types.ArtifactService},
	"models":      {dir: "server/models", atype: types.ArtifactModel},
	"routes":      {dir: "server/routes", atype: types.ArtifactService},
	"middleware":  {dir: "server/middleware", atype: types.ArtifactService},
	"components":  {dir: "src/components", atype: types.ArtifactComponent},
	"pages":       {dir: "src/pages", atype: types.ArtifactPage},
	"utils":       {dir: "src/utils", atype: types.ArtifactUtil},
	"config":      {dir: "config", filename: "config.js", atype: types.ArtifactConfig},
	"database":    {dir: "server/db", filename: "database.js", atype: types.ArtifactModel},
}

// keyOrder fixes iteration order so extraction output is deterministic.
var keyOrder = []string{
	"server", "app", "index", "controllers", "services", "models",
	"routes", "middleware", "components", "pages", "utils", "config",
	"database",
}

type jsonPayloadStrategy struct{}

func (jsonPayloadStrategy) Name() string { return "json-payload" }

func (jsonPayloadStrategy) TryExtract(raw string, ectx Context) ([]types.Artifact, error) {
	trimmed := strings.TrimSpace(StripFences(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, nil
	}

	var artifacts []types.Artifact

	// files: [{path, content}] is handled first - it is the sub-generator's
	// native shape and carries explicit paths.
	if files, ok := payload["files"].([]any); ok {
		for _, f := range files {
			entry, ok := f.(map[string]any)
			if !ok {
				continue
			}
			p, _ := entry["path"].(string)
			content, _ := entry["content"].(string)
			if p == "" || content == "" {
				continue
			}
			artifacts = append(artifacts, types.Artifact{
				Name: nameForPath(p),
				Type: typeForPath(p),
				Path: p,
				Body: content,
			})
		}
	}

	for _, key := range keyOrder {
		value, present := payload[key]
		if !present {
			continue
		}
		info := recognizedKeys[key]

		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			artifacts = append(artifacts, types.Artifact{
				Name: nameForPath(info.filename),
				Type: info.atype,
				Path: path.Join(info.dir, info.filename),
				Body: v,
			})
		case map[string]any:
			for _, fname := range sortedKeys(v) {
				content, ok := v[fname].(string)
				if !ok || strings.TrimSpace(content) == "" {
					continue
				}
				if path.Ext(fname) == "" {
					fname += ".js"
				}
				artifacts = append(artifacts, types.Artifact{
					Name: nameForPath(fname),
					Type: info.atype,
					Path: path.Join(info.dir, fname),
					Body: content,
				})
			}
		case []any:
			for i, elem := range v {
				content, ok := elem.(string)
				if !ok || strings.TrimSpace(content) == "" {
					continue
				}
				fname := fmt.Sprintf("%s_%d.js", strings.TrimSuffix(key, "s"), i+1)
				artifacts = append(artifacts, types.Artifact{
					Name: nameForPath(fname),
					Type: info.atype,
					Path: path.Join(info.dir, fname),
					Body: content,
				})
			}
		}
	}

	return artifacts, nil
}

// ---------------------------------------------------------------------------
// shared helpers
// ---------------------------------------------------------------------------

var fenceLineRe = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z0-9+-]*[ \t]*$")

// StripFences removes markdown code-fence delimiter lines, leaving the
// fenced content in place.
func StripFences(s string) string {
	return fenceLineRe.ReplaceAllString(s, "")
}

// nameForPath derives an artifact name from a file path: the base name
// without extensions.
func nameForPath(p string) string {
	base := path.Base(p)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return DefaultEntityName
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

// typeForPath infers the artifact type tag from its path.
func typeForPath(p string) types.ArtifactType {
	lower := strings.ToLower(p)
	switch {
	case strings.Contains(lower, ".test.") || strings.Contains(lower, ".spec.") || strings.Contains(lower, "__tests__"):
		return types.ArtifactTest
	case strings.Contains(lower, "/pages/"):
		return types.ArtifactPage
	case strings.Contains(lower, "/models/") || strings.Contains(lower, "/db/"):
		return types.ArtifactModel
	case strings.Contains(lower, "/utils/") || strings.Contains(lower, "/helpers/"):
		return types.ArtifactUtil
	case strings.Contains(lower, "config") || strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml"):
		return types.ArtifactConfig
	case strings.Contains(lower, "server") || strings.Contains(lower, "/services/") || strings.Contains(lower, "/controllers/") || strings.Contains(lower, "/routes/") || strings.Contains(lower, "/middleware/"):
		return types.ArtifactService
	default:
		return types.ArtifactComponent
	}
}

// inferPath builds a default component path for a name when the provider
// gave none.
func inferPath(name, language string) string {
	ext := ".jsx"
	if language == "typescript" || language == "ts" || language == "tsx" {
		ext = ".tsx"
	}
	return "src/components/" + name + ext
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
