// Package compose builds the scope-specific generation instruction sent
// to the provider. Composition is a pure lookup-and-fill over versioned
// template data; compliance enforcement happens downstream in extraction
// and rewriting, not here.
package compose

import (
	"context"
	"fmt"
	"strings"

	"codeforge/internal/extract"
	"codeforge/internal/types"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// TemplateSearch supplies candidate prior art for an instruction. A
// failing search degrades to an empty result set.
type TemplateSearch interface {
	FindSimilar(ctx context.Context, query string, limit int) ([]string, error)
}

// Composer renders generation instructions. Rendered scope sections are
// cached per (scope, entity, language) since template data never changes
// at runtime.
type Composer struct {
	cache  *lru.Cache[string, string]
	search TemplateSearch
	log    *zap.Logger
}

// NewComposer creates a Composer. search may be nil.
func NewComposer(search TemplateSearch, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New[string, string](256)
	return &Composer{cache: cache, search: search, log: log}
}

// Compose builds the full instruction for a classified request.
func (c *Composer) Compose(ctx context.Context, req types.GenerationRequest, scope types.ScopeDetection) string {
	entity := extract.DetectEntity(req.Prompt)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %s code for the following request.\n\n", req.Language)
	fmt.Fprintf(&b, "Request: %s\n", req.Prompt)
	if req.Framework != "" {
		fmt.Fprintf(&b, "Target framework: %s\n", req.Framework)
	}
	if req.Context.Domain != "" {
		fmt.Fprintf(&b, "Domain: %s\n", req.Context.Domain)
	}
	if req.Context.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", req.Context.Style)
	}

	b.WriteString("\n")
	b.WriteString(c.scopeSection(scope, entity, req.Language))

	b.WriteString("\nRules:\n")
	for _, rule := range coreRules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}
	fmt.Fprintf(&b, "- Never import any of: %s.\n", strings.Join(forbiddenDependencies, ", "))

	// The count constraint appears in the scope metadata AND here as an
	// instruction: the provider has to be told twice.
	fmt.Fprintf(&b, "- Produce at least %d and at most %d files.\n", scope.MinArtifacts, scope.MaxArtifacts)

	b.WriteString("\n")
	b.WriteString(outputContract)
	b.WriteString("\n")

	if prior := c.priorArt(ctx, req.Prompt); len(prior) > 0 {
		b.WriteString("\nReference implementations for style guidance:\n")
		for _, p := range prior {
			fmt.Fprintf(&b, "---\n%s\n", p)
		}
	}

	return b.String()
}

// scopeSection renders (or recalls) the per-scope file list and rules.
func (c *Composer) scopeSection(scope types.ScopeDetection, entity, language string) string {
	key := string(scope.Scope) + ":" + entity + ":" + language
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	tpl, ok := scopeTemplates[scope.Scope]
	if !ok {
		tpl = scopeTemplates[types.ScopeFeature]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scope: %s (template %s)\n", scope.Scope, tpl.Version)
	fmt.Fprintf(&b, "Primary entity: %s\n", entity)
	b.WriteString("Expected files:\n")
	for _, f := range tpl.Files {
		fmt.Fprintf(&b, "- %s\n", strings.ReplaceAll(f, "{entity}", entity))
	}
	if len(tpl.Rules) > 0 {
		b.WriteString("Structure:\n")
		for _, r := range tpl.Rules {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	section := b.String()
	c.cache.Add(key, section)
	return section
}

// priorArt queries the template search when configured. Errors degrade to
// an empty result set.
func (c *Composer) priorArt(ctx context.Context, query string) []string {
	if c.search == nil {
		return nil
	}
	results, err := c.search.FindSimilar(ctx, query, 2)
	if err != nil {
		c.log.Warn("template search failed", zap.Error(err))
		return nil
	}
	return results
}
