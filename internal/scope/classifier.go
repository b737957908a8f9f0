// Package scope classifies a generation request into a scope tier. The
// classifier is a deterministic keyword engine: an ordered, exclusive list
// of tier checks where the first satisfied predicate wins. There is no
// scoring across tiers and no fallible path - an unmatched request falls
// back to a low-confidence feature classification.
package scope

import (
	"strings"

	"codeforge/internal/types"
)

// Classifier labels requests with a scope, complexity tier, and expected
// artifact-count range. It is stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify runs the ordered tier checks against the request text.
// Priority is fixed: single-component, fullstack, backend, landing-page,
// page, feature/dashboard, then the generic feature fallback.
func (c *Classifier) Classify(requestText string) types.ScopeDetection {
	text := strings.ToLower(requestText)

	if hits := matchAny(text, singleComponentKeywords); len(hits) > 0 {
		return types.ScopeDetection{
			Scope:           types.ScopeSingleComponent,
			Tier:            types.TierSimple,
			Confidence:      0.9,
			MinArtifacts:    3,
			MaxArtifacts:    5,
			IncludeFrontend: true,
			MatchedKeywords: hits,
		}
	}

	if hits, ok := matchFullstack(text); ok {
		tier := types.TierComplex
		if strings.Contains(text, "enterprise") {
			tier = types.TierEnterprise
		}
		return types.ScopeDetection{
			Scope:           types.ScopeFullstack,
			Tier:            tier,
			Confidence:      0.9,
			MinArtifacts:    30,
			MaxArtifacts:    60,
			IncludeFrontend: true,
			IncludeBackend:  true,
			IncludeDatabase: true,
			MatchedKeywords: hits,
		}
	}

	if hits := matchAny(text, backendKeywords); len(hits) > 0 {
		return types.ScopeDetection{
			Scope:           types.ScopeBackend,
			Tier:            types.TierComplex,
			Confidence:      0.85,
			MinArtifacts:    15,
			MaxArtifacts:    30,
			IncludeBackend:  true,
			IncludeDatabase: len(matchAny(text, databaseKeywords)) > 0,
			MatchedKeywords: hits,
		}
	}

	if hits := matchAny(text, landingKeywords); len(hits) > 0 {
		return types.ScopeDetection{
			Scope:           types.ScopeLandingPage,
			Tier:            types.TierSimple,
			Confidence:      0.85,
			MinArtifacts:    5,
			MaxArtifacts:    10,
			IncludeFrontend: true,
			MatchedKeywords: hits,
		}
	}

	if hits := matchAny(text, pageKeywords); len(hits) > 0 {
		return types.ScopeDetection{
			Scope:           types.ScopePage,
			Tier:            types.TierModerate,
			Confidence:      0.8,
			MinArtifacts:    10,
			MaxArtifacts:    20,
			IncludeFrontend: true,
			MatchedKeywords: hits,
		}
	}

	if hits := matchAny(text, featureKeywords); len(hits) > 0 {
		return types.ScopeDetection{
			Scope:           types.ScopeFeature,
			Tier:            types.TierModerate,
			Confidence:      0.8,
			MinArtifacts:    8,
			MaxArtifacts:    15,
			IncludeFrontend: true,
			IncludeBackend:  len(matchAny(text, apiKeywords)) > 0,
			MatchedKeywords: hits,
		}
	}

	// Nothing matched: generic feature classification at low confidence.
	return types.ScopeDetection{
		Scope:           types.ScopeFeature,
		Tier:            types.TierModerate,
		Confidence:      0.6,
		MinArtifacts:    8,
		MaxArtifacts:    15,
		IncludeFrontend: true,
	}
}

// matchFullstack is satisfied by an explicit fullstack keyword, or by
// co-occurrence of frontend, backend, and persistence keywords.
func matchFullstack(text string) ([]string, bool) {
	if hits := matchAny(text, fullstackKeywords); len(hits) > 0 {
		return hits, true
	}

	fe := matchAny(text, frontendKeywords)
	be := matchAny(text, apiKeywords)
	db := matchAny(text, databaseKeywords)
	if len(fe) > 0 && len(be) > 0 && len(db) > 0 {
		hits := append(append(fe, be...), db...)
		return hits, true
	}
	return nil, false
}

// matchAny returns the keywords present in text, in keyword-list order.
// Single-word keywords match on word boundaries so that e.g. "ui" does not
// fire inside "build"; multi-word keywords match as substrings.
func matchAny(text string, keywords []string) []string {
	words := fieldSet(text)
	var hits []string
	for _, kw := range keywords {
		if strings.ContainsAny(kw, " -") {
			if strings.Contains(text, kw) {
				hits = append(hits, kw)
			}
			continue
		}
		if words[kw] {
			hits = append(hits, kw)
		}
	}
	return hits
}

// fieldSet splits text into lowercase word tokens.
func fieldSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		set[w] = true
	}
	return set
}
