// Package types defines the shared data model that flows through the
// generation pipeline: the immutable request, the scope classification,
// extracted artifacts with their validation annotations, and the final
// aggregated result. Every stage consumes and produces these types; none
// of them carry behavior beyond small derived-metric helpers.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScopeType is the classification bucket for a generation request. It
// determines the expected artifact count and the structure of the
// composed instruction.
type ScopeType string

const (
	ScopeSingleComponent ScopeType = "single-component"
	ScopeFeature         ScopeType = "feature"
	ScopePage            ScopeType = "page"
	ScopeBackend         ScopeType = "backend"
	ScopeFullstack       ScopeType = "fullstack"
	ScopeLandingPage     ScopeType = "landing-page"
)

// ComplexityTier is a coarse effort estimate attached to a scope.
type ComplexityTier string

const (
	TierSimple     ComplexityTier = "simple"
	TierModerate   ComplexityTier = "moderate"
	TierComplex    ComplexityTier = "complex"
	TierEnterprise ComplexityTier = "enterprise"
)

// GenerationRequest describes one natural-language request for a software
// artifact. It is created once and consumed read-only by every stage.
type GenerationRequest struct {
	ID        string
	Prompt    string
	Framework string // optional target framework tag, e.g. "react"
	Language  string // optional target language tag, e.g. "typescript"
	Context   RequestContext
	SessionID string
}

// RequestContext carries optional structured hints supplied by the caller.
type RequestContext struct {
	Domain         string
	Style          string
	ComplexityHint string
}

// NewRequest creates a GenerationRequest with a fresh ID and sensible
// defaults for the target tags.
func NewRequest(prompt string) GenerationRequest {
	return GenerationRequest{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Framework: "react",
		Language:  "typescript",
	}
}

// ScopeDetection is the classifier's verdict for a request. Produced once,
// never mutated afterward.
type ScopeDetection struct {
	Scope           ScopeType
	Tier            ComplexityTier
	Confidence      float64 // in [0,1]
	MinArtifacts    int
	MaxArtifacts    int
	IncludeFrontend bool
	IncludeBackend  bool
	IncludeDatabase bool
	MatchedKeywords []string
}

// ArtifactType tags what kind of source unit an artifact is.
type ArtifactType string

const (
	ArtifactComponent ArtifactType = "component"
	ArtifactPage      ArtifactType = "page"
	ArtifactService   ArtifactType = "service"
	ArtifactModel     ArtifactType = "model"
	ArtifactUtil      ArtifactType = "util"
	ArtifactConfig    ArtifactType = "config"
	ArtifactTest      ArtifactType = "test"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// IssueCategory groups validation issues by concern.
type IssueCategory string

const (
	CategorySyntax      IssueCategory = "syntax"
	CategoryType        IssueCategory = "type"
	CategoryDependency  IssueCategory = "dependency"
	CategoryContract    IssueCategory = "contract"
	CategoryPerformance IssueCategory = "performance"
)

// Issue is a single finding reported by the validator.
type Issue struct {
	Severity Severity
	Category IssueCategory
	Message  string
	Line     int // 0 when the issue is not line-addressable
}

// ValidationOutcome is the validator's verdict for one artifact. It is
// attached to the artifact's metadata, never stored standalone.
type ValidationOutcome struct {
	Passed bool
	Score  float64
	Issues []Issue
}

// HasBlockingIssues reports whether any issue is error or critical.
func (v ValidationOutcome) HasBlockingIssues() bool {
	for _, iss := range v.Issues {
		if iss.Severity == SeverityError || iss.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ArtifactMetadata carries derived metrics and stage annotations.
type ArtifactMetadata struct {
	Lines        int
	Complexity   int // McCabe-style branch estimate
	Validated    bool
	Optimized    bool
	RelatedFiles []string
	Validation   *ValidationOutcome
}

// Artifact is one named, pathed unit of generated source text. Identity is
// the (Name, Path) pair; two artifacts with colliding paths inside one
// extraction result are a defect.
type Artifact struct {
	Name         string
	Type         ArtifactType
	Path         string
	Body         string
	Dependencies []string
	Metadata     ArtifactMetadata
}

// branchTokens drive the complexity estimate. The estimate intentionally
// counts string occurrences rather than parsing; it only has to rank
// artifacts relative to each other.
var branchTokens = []string{"if ", "if(", "else", "for ", "for(", "while", "case ", "switch", "catch", "&&", "||"}

// RefreshStats recomputes the line count and the complexity estimate from
// the current body.
func (a *Artifact) RefreshStats() {
	a.Metadata.Lines = strings.Count(a.Body, "\n") + 1
	complexity := 1
	for _, tok := range branchTokens {
		complexity += strings.Count(a.Body, tok)
	}
	a.Metadata.Complexity = complexity
}

// StageResult reports the outcome of one pipeline stage. Internal to
// orchestration, never persisted.
type StageResult struct {
	Success  bool
	Err      string
	Warnings []string
}

// StageOK returns a successful stage result.
func StageOK() StageResult { return StageResult{Success: true} }

// StageFail returns a failed stage result with the given error text.
func StageFail(err string) StageResult { return StageResult{Success: false, Err: err} }

// PipelineState names a position in the orchestrator's state machine.
type PipelineState string

const (
	StatePrepared  PipelineState = "prepared"
	StateGenerated PipelineState = "generated"
	StateValidated PipelineState = "validated"
	StateOptimized PipelineState = "optimized"
	StateDone      PipelineState = "done"
	StateFailed    PipelineState = "failed"
)

// Result is the single shape the orchestrator hands back to callers.
// Fatal failures still produce a Result (Success=false, empty artifact
// list); callers never handle panics or errors from Execute directly.
type Result struct {
	Success      bool
	Error        string
	State        PipelineState
	Scope        ScopeDetection
	Artifacts    []Artifact
	QualityScore float64
	Dependencies []string
	Warnings     []string
	Duration     time.Duration
}
