// Package rewrite applies deterministic corrective transformations to
// generated source so it runs inside the preview sandbox. The transforms
// are a fixed, ordered list of pure string functions and run
// unconditionally - the sandbox's constraints are stricter than what the
// validator checks, so rewrites are not issue-triggered. Applying the
// full list twice must produce the same output as applying it once.
package rewrite

import (
	"regexp"
	"strings"

	"codeforge/internal/types"

	"go.uber.org/zap"
)

// transform is one pure body -> body rewrite step.
type transform struct {
	name  string
	apply func(string) string
}

// Rewriter runs the fixed transform list over artifact bodies.
type Rewriter struct {
	transforms []transform
	log        *zap.Logger
}

// NewRewriter creates a Rewriter. Transform order is fixed: the hook and
// annotation strips narrow the text before the default-export pass, and
// the import strips run last so they cannot disturb earlier matches on
// import lines.
func NewRewriter(log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{
		transforms: []transform{
			{"strip-hook-generics", stripHookGenerics},
			{"relax-type-annotations", relaxTypeAnnotations},
			{"strip-dead-diagnostics", stripDeadDiagnostics},
			{"ensure-default-export", ensureDefaultExport},
			{"concat-fetch-templates", concatFetchTemplates},
			{"strip-relative-imports", stripRelativeImports},
			{"strip-denied-imports", stripDeniedImports},
		},
		log: log,
	}
}

// Rewrite applies every transform in order and reports which ones changed
// the body.
func (r *Rewriter) Rewrite(body string) (string, []string) {
	var changes []string
	for _, t := range r.transforms {
		fixed := t.apply(body)
		if fixed != body {
			changes = append(changes, t.name)
			body = fixed
		}
	}
	if len(changes) > 0 {
		r.log.Debug("corrective rewrites applied", zap.Strings("transforms", changes))
	}
	return body, changes
}

// RewriteArtifact rewrites an artifact's body in place and marks it
// optimized. Metadata stats are refreshed to match the new body.
func (r *Rewriter) RewriteArtifact(a *types.Artifact) []string {
	fixed, changes := r.Rewrite(a.Body)
	a.Body = fixed
	a.Metadata.Optimized = true
	a.RefreshStats()
	return changes
}

// ---------------------------------------------------------------------------
// (a) strip type parameters from stateful hook call sites
// ---------------------------------------------------------------------------

var hookNames = []string{"useState", "useRef", "useReducer", "useMemo", "useCallback", "useContext"}

// stripHookGenerics turns useState<User[]>([]) into useState([]). The
// lightweight transpilation path in the preview runtime cannot parse type
// arguments at these call sites. Angle brackets are matched by depth so
// nested generics like useState<Map<string, User>>() strip cleanly.
func stripHookGenerics(body string) string {
	for _, hook := range hookNames {
		from := 0
		for {
			idx := indexHookGeneric(body, hook, from)
			if idx < 0 {
				break
			}
			open := idx + len(hook)
			close := matchAngle(body, open)
			if close < 0 || close+1 >= len(body) || body[close+1] != '(' {
				from = open
				continue
			}
			body = body[:open] + body[close+1:]
			from = open
		}
	}
	return body
}

// indexHookGeneric finds the next `hook<` occurrence at or after from
// where hook is a whole identifier.
func indexHookGeneric(body, hook string, from int) int {
	for {
		i := strings.Index(body[from:], hook+"<")
		if i < 0 {
			return -1
		}
		i += from
		if i > 0 && isWordByte(body[i-1]) {
			from = i + len(hook)
			continue
		}
		return i
	}
}

// matchAngle returns the index of the '>' matching the '<' at open, or -1.
func matchAngle(body string, open int) int {
	depth := 0
	for i := open; i < len(body); i++ {
		switch body[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// ---------------------------------------------------------------------------
// (b) relax flagged type-annotation patterns
// ---------------------------------------------------------------------------

var typeAnnotationRes = []*regexp.Regexp{
	regexp.MustCompile(`:\s*React\.FC<[^>\n]*>`),
	regexp.MustCompile(`:\s*React\.FC\b`),
	regexp.MustCompile(`:\s*JSX\.Element\b`),
	regexp.MustCompile(`:\s*React\.ReactNode\b`),
}

func relaxTypeAnnotations(body string) string {
	for _, re := range typeAnnotationRes {
		body = re.ReplaceAllString(body, "")
	}
	return body
}

// ---------------------------------------------------------------------------
// (c) strip dead diagnostic statements
// ---------------------------------------------------------------------------

// deadConsoleRe matches whole lines that are only a console call, the
// typical debug leftovers. The argument list allows one level of nested
// parens and must be followed by nothing but an optional semicolon, so a
// line carrying any further statement or expression does not match.
var deadConsoleRe = regexp.MustCompile(`(?m)^[ \t]*console\.(?:log|debug|info|warn|error)\((?:[^()\n]|\([^()\n]*\))*\);?[ \t\r]*$\n?`)

func stripDeadDiagnostics(body string) string {
	return deadConsoleRe.ReplaceAllString(body, "")
}

// ---------------------------------------------------------------------------
// (d) ensure exactly one default export
// ---------------------------------------------------------------------------

var (
	defaultExportRe     = regexp.MustCompile(`(?m)^export[ \t]+default\b`)
	defaultExportLineRe = regexp.MustCompile(`(?m)^export[ \t]+default[ \t]+[A-Za-z0-9_]+;[ \t]*\r?\n?`)
	topLevelDeclRe      = regexp.MustCompile(`(?m)^(?:export[ \t]+)?(?:function|class|const)[ \t]+([A-Z][A-Za-z0-9_]*)`)
)

func ensureDefaultExport(body string) string {
	count := len(defaultExportRe.FindAllStringIndex(body, -1))
	if count == 1 {
		return body
	}

	if count == 0 {
		m := topLevelDeclRe.FindStringSubmatch(body)
		if m == nil {
			return body
		}
		return strings.TrimRight(body, "\n") + "\n\nexport default " + m[1] + ";\n"
	}

	// More than one: keep the first occurrence, drop bare duplicate
	// `export default Name;` lines after it. A duplicate in declaration
	// form is left for the validator to flag; deleting it would delete
	// code.
	firstEnd := defaultExportRe.FindStringIndex(body)[1]
	var sb strings.Builder
	last := 0
	for _, loc := range defaultExportLineRe.FindAllStringIndex(body, -1) {
		if loc[0] < firstEnd {
			continue
		}
		sb.WriteString(body[last:loc[0]])
		last = loc[1]
	}
	sb.WriteString(body[last:])
	return sb.String()
}

// ---------------------------------------------------------------------------
// (e) template-literal network calls -> string concatenation
// ---------------------------------------------------------------------------

var fetchTemplateRe = regexp.MustCompile("((?:fetch|axios\\.(?:get|post|put|patch|delete))\\(\\s*)`([^`\\n]*)`")

var interpRe = regexp.MustCompile(`\$\{([^{}]*)\}`)

// concatFetchTemplates rewrites fetch(`${base}/x/${id}`) into
// fetch(base + "/x/" + id). The sandboxed preview runtime does not
// evaluate template literals inside that call form.
func concatFetchTemplates(body string) string {
	return fetchTemplateRe.ReplaceAllStringFunc(body, func(match string) string {
		sub := fetchTemplateRe.FindStringSubmatch(match)
		prefix, tpl := sub[1], sub[2]

		var parts []string
		last := 0
		for _, loc := range interpRe.FindAllStringSubmatchIndex(tpl, -1) {
			if lit := tpl[last:loc[0]]; lit != "" {
				parts = append(parts, `"`+lit+`"`)
			}
			parts = append(parts, strings.TrimSpace(tpl[loc[2]:loc[3]]))
			last = loc[1]
		}
		if lit := tpl[last:]; lit != "" {
			parts = append(parts, `"`+lit+`"`)
		}
		if len(parts) == 0 {
			parts = []string{`""`}
		}
		return prefix + strings.Join(parts, " + ")
	})
}

// ---------------------------------------------------------------------------
// (f) strip same-directory relative imports
// ---------------------------------------------------------------------------

// Same-directory imports cannot resolve in the single-file preview
// context. Parent-relative imports are left alone; they fail the same
// way, but rewriting them is the bundler integration's concern.
var relativeImportRe = regexp.MustCompile(`(?m)^[ \t]*import\b[^\n]*['"]\./[^\n]*\r?\n?`)

func stripRelativeImports(body string) string {
	return relativeImportRe.ReplaceAllString(body, "")
}

// ---------------------------------------------------------------------------
// (g) strip deny-listed external imports
// ---------------------------------------------------------------------------

// deniedPackages are not installed in the runtime sandbox.
var deniedPackages = []string{
	"styled-components",
	"@mui/material",
	"@material-ui/core",
	"antd",
	"framer-motion",
	"react-query",
	"redux-saga",
}

var deniedImportRes = buildDeniedImportRes()

func buildDeniedImportRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(deniedPackages))
	for _, pkg := range deniedPackages {
		res = append(res, regexp.MustCompile(
			`(?m)^[ \t]*import\b[^\n]*['"]`+regexp.QuoteMeta(pkg)+`(?:/[^'"\n]*)?['"][^\n]*\r?\n?`))
	}
	return res
}

func stripDeniedImports(body string) string {
	for _, re := range deniedImportRes {
		body = re.ReplaceAllString(body, "")
	}
	return body
}
