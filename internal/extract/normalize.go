package extract

import (
	"regexp"
	"strings"

	"codeforge/internal/types"
)

// genericNames are placeholder names the provider tends to emit when it
// ignores the requested entity. Artifacts carrying one of these are
// renamed to the detected entity after extraction.
var genericNames = map[string]bool{
	"Item":      true,
	"Component": true,
	"Element":   true,
	"Widget":    true,
}

// renameSuffixes are type-suffix identifiers treated as part of the
// artifact name during renaming: ItemProps follows Item to ProductProps.
// Arbitrary compounds (ItemList, LineItem) are left alone - renaming is
// whole-identifier only, not substring.
var renameSuffixes = "Props|State|Type|Styles|Test"

// NormalizeNames renames generically named artifacts to the detected
// entity, rewriting whole-word occurrences of the old name in each
// artifact's name, path, body, and related-file list.
func NormalizeNames(artifacts []types.Artifact, entity string) {
	if entity == "" || entity == DefaultEntityName || genericNames[entity] {
		return
	}

	for i := range artifacts {
		old := artifacts[i].Name
		if !genericNames[old] {
			continue
		}
		renameArtifact(&artifacts[i], old, entity)
	}
}

// renameArtifact substitutes old with entity across one artifact. The
// substitution is identifier-boundary safe: `old` and `old<Suffix>` for
// the known type suffixes, never a substring inside another identifier.
func renameArtifact(a *types.Artifact, old, entity string) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `(` + renameSuffixes + `)?\b`)
	replace := func(s string) string {
		return re.ReplaceAllString(s, entity+"$1")
	}

	a.Name = entity
	a.Path = replace(a.Path)
	a.Body = replace(a.Body)
	for j, rf := range a.Metadata.RelatedFiles {
		a.Metadata.RelatedFiles[j] = replace(rf)
	}

	// Lowercase file stems follow the rename too: item.module.css.
	lower := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(old)) + `\b`)
	a.Path = lower.ReplaceAllString(a.Path, strings.ToLower(entity))
}
