// Package validate submits artifacts to a validator and annotates them
// with the outcome. Validation is lenient by design: a failing artifact
// is rewritten and re-checked once, then kept either way. The pipeline
// favors best-effort partial delivery over hard failure.
package validate

import (
	"context"
	"regexp"
	"strings"

	"codeforge/internal/types"
)

// Validator is the external judge for one piece of generated code. It
// must be idempotent and side-effect-free from the pipeline's view.
type Validator interface {
	Validate(ctx context.Context, code, language string) (types.ValidationOutcome, error)
}

// StaticValidator is the built-in judge. It runs cheap textual checks -
// it is not a compiler, just a tripwire for the failure modes generation
// providers actually exhibit.
type StaticValidator struct{}

// NewStaticValidator creates a StaticValidator.
func NewStaticValidator() *StaticValidator {
	return &StaticValidator{}
}

var (
	placeholderRe = regexp.MustCompile(`(?i)\b(?:TODO|FIXME|XXX)\b|\.\.\. *(?:rest|more|etc)|(?:placeholder|not implemented|implement me)`)
	forbiddenRe   = regexp.MustCompile(`['"](?:styled-components|@mui/material|@material-ui/core|antd|framer-motion|react-query|redux-saga)(?:/[^'"]*)?['"]`)
	emptyExportRe = regexp.MustCompile(`(?m)^export\s+(?:const|function)\s+\w+[^\n]*\{\s*\}`)
)

// Validate runs the check list and scores the result on a 0-100 scale.
func (v *StaticValidator) Validate(_ context.Context, code, language string) (types.ValidationOutcome, error) {
	var issues []types.Issue

	if strings.TrimSpace(code) == "" {
		issues = append(issues, types.Issue{
			Severity: types.SeverityCritical,
			Category: types.CategorySyntax,
			Message:  "artifact body is empty",
		})
		return score(issues), nil
	}

	if d := braceDelta(code); d != 0 {
		issues = append(issues, types.Issue{
			Severity: types.SeverityError,
			Category: types.CategorySyntax,
			Message:  "unbalanced braces",
		})
	}

	if placeholderRe.MatchString(code) {
		issues = append(issues, types.Issue{
			Severity: types.SeverityError,
			Category: types.CategoryContract,
			Message:  "placeholder or unimplemented section",
		})
	}

	if forbiddenRe.MatchString(code) {
		issues = append(issues, types.Issue{
			Severity: types.SeverityError,
			Category: types.CategoryDependency,
			Message:  "forbidden external dependency",
		})
	}

	if emptyExportRe.MatchString(code) {
		issues = append(issues, types.Issue{
			Severity: types.SeverityWarning,
			Category: types.CategoryContract,
			Message:  "exported unit has an empty body",
		})
	}

	if strings.Count(code, "\n") > 800 {
		issues = append(issues, types.Issue{
			Severity: types.SeverityInfo,
			Category: types.CategoryPerformance,
			Message:  "artifact is unusually large",
		})
	}

	return score(issues), nil
}

// braceDelta counts unmatched curly braces outside string literals.
func braceDelta(code string) int {
	depth := 0
	var inString byte
	escape := false
	for i := 0; i < len(code); i++ {
		b := code[i]
		if escape {
			escape = false
			continue
		}
		if inString != 0 {
			switch b {
			case '\\':
				escape = true
			case inString:
				inString = 0
			}
			continue
		}
		switch b {
		case '"', '\'', '`':
			inString = b
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

// score folds the issue list into a ValidationOutcome. Errors cost 25
// points, warnings 10, criticals 50; passing means no error or critical.
func score(issues []types.Issue) types.ValidationOutcome {
	total := 100.0
	passed := true
	for _, iss := range issues {
		switch iss.Severity {
		case types.SeverityCritical:
			total -= 50
			passed = false
		case types.SeverityError:
			total -= 25
			passed = false
		case types.SeverityWarning:
			total -= 10
		}
	}
	if total < 0 {
		total = 0
	}
	return types.ValidationOutcome{Passed: passed, Score: total, Issues: issues}
}
