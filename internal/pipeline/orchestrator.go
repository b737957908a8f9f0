// Package pipeline orchestrates the generation stages end to end:
// classify, compose, invoke, extract, validate, optimize, finalize. The
// orchestrator is the only component with a failure policy; every stage
// below it either succeeds or reports, and Execute always hands back a
// Result, even on panic.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"codeforge/internal/compose"
	"codeforge/internal/extract"
	"codeforge/internal/provider"
	"codeforge/internal/rewrite"
	"codeforge/internal/scope"
	"codeforge/internal/types"
	"codeforge/internal/validate"

	"go.uber.org/zap"
)

// Orchestrator drives one request through the full stage sequence.
type Orchestrator struct {
	classifier *scope.Classifier
	composer   *compose.Composer
	invoker    *provider.Invoker
	extractor  *extract.Extractor
	validation *validate.Stage
	rewriter   *rewrite.Rewriter
	log        *zap.Logger
}

// NewOrchestrator wires the stages together. All arguments are required
// except log.
func NewOrchestrator(
	classifier *scope.Classifier,
	composer *compose.Composer,
	invoker *provider.Invoker,
	extractor *extract.Extractor,
	validation *validate.Stage,
	rewriter *rewrite.Rewriter,
	log *zap.Logger,
) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		classifier: classifier,
		composer:   composer,
		invoker:    invoker,
		extractor:  extractor,
		validation: validation,
		rewriter:   rewriter,
		log:        log,
	}
}

// Execute runs the pipeline for one request. It never returns an error
// and never panics outward: fatal conditions produce a Result with
// Success=false, State=failed, and an empty artifact list. Failure is
// only possible before validation; once artifacts exist and have been
// checked, the pipeline always completes.
func (o *Orchestrator) Execute(ctx context.Context, req types.GenerationRequest) (result types.Result) {
	start := time.Now()
	state := types.StatePrepared

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("pipeline panic",
				zap.String("request", req.ID),
				zap.String("state", string(state)),
				zap.Any("panic", r))
			result = types.Result{
				Success:  false,
				Error:    fmt.Sprintf("internal pipeline failure in state %s: %v", state, r),
				State:    types.StateFailed,
				Duration: time.Since(start),
			}
		}
	}()

	var warnings []string

	detection := o.classifier.Classify(req.Prompt)
	o.log.Info("request classified",
		zap.String("request", req.ID),
		zap.String("scope", string(detection.Scope)),
		zap.Float64("confidence", detection.Confidence))

	instruction := o.composer.Compose(ctx, req, detection)

	invoked, err := o.invoker.Invoke(ctx, instruction, detection)
	if err != nil {
		return o.fail(req, detection, state, start, warnings,
			fmt.Sprintf("generation failed: %v", err))
	}
	warnings = append(warnings, invoked.Warnings...)
	state = types.StateGenerated

	var artifacts []types.Artifact
	if len(invoked.Files) > 0 {
		artifacts = o.extractor.FromFiles(toFileRefs(invoked.Files), req)
	} else {
		artifacts = o.extractor.Extract(invoked.RawText, req, detection)
	}
	if len(artifacts) == 0 {
		return o.fail(req, detection, state, start, warnings,
			"provider returned no usable output")
	}
	o.log.Info("artifacts extracted",
		zap.String("request", req.ID),
		zap.Int("count", len(artifacts)),
		zap.String("backend", invoked.Backend))

	if len(artifacts) < detection.MinArtifacts || len(artifacts) > detection.MaxArtifacts {
		warnings = append(warnings, fmt.Sprintf(
			"artifact count %d outside expected range [%d, %d] for scope %s",
			len(artifacts), detection.MinArtifacts, detection.MaxArtifacts, detection.Scope))
	}

	// Validation and optimization cannot fail the pipeline; from here on
	// the only terminal state is done.
	artifacts, validationWarnings := o.validation.Run(ctx, artifacts, req.Language)
	warnings = append(warnings, validationWarnings...)
	state = types.StateValidated

	// Compatibility rewrites run over every artifact regardless of
	// validation outcome. The transforms are idempotent, so artifacts
	// already rewritten during validation pass through unchanged.
	for i := range artifacts {
		o.rewriter.RewriteArtifact(&artifacts[i])
	}
	state = types.StateOptimized
	result = types.Result{
		Success:      true,
		State:        types.StateDone,
		Scope:        detection,
		Artifacts:    artifacts,
		QualityScore: qualityScore(artifacts),
		Dependencies: dependencyUnion(artifacts),
		Warnings:     warnings,
		Duration:     time.Since(start),
	}
	o.log.Info("pipeline complete",
		zap.String("request", req.ID),
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Float64("quality", result.QualityScore),
		zap.Duration("duration", result.Duration))
	return result
}

// fail builds the terminal failure Result. Reaching here is only legal
// from the prepared and generated states.
func (o *Orchestrator) fail(req types.GenerationRequest, detection types.ScopeDetection, state types.PipelineState, start time.Time, warnings []string, msg string) types.Result {
	o.log.Error("pipeline failed",
		zap.String("request", req.ID),
		zap.String("state", string(state)),
		zap.String("error", msg))
	return types.Result{
		Success:  false,
		Error:    msg,
		State:    types.StateFailed,
		Scope:    detection,
		Warnings: warnings,
		Duration: time.Since(start),
	}
}

func toFileRefs(files []provider.FileSpec) []extract.FileRef {
	refs := make([]extract.FileRef, len(files))
	for i, f := range files {
		refs[i] = extract.FileRef{Path: f.Path, Content: f.Content}
	}
	return refs
}

// qualityScore is the mean validation score across artifacts. An
// artifact without a validation outcome contributes zero, so skipped
// validation yields a zero score rather than an inflated one.
func qualityScore(artifacts []types.Artifact) float64 {
	if len(artifacts) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range artifacts {
		if a.Metadata.Validation != nil {
			total += a.Metadata.Validation.Score
		}
	}
	return total / float64(len(artifacts))
}

// dependencyUnion merges per-artifact dependency lists, deduplicated and
// sorted for stable output.
func dependencyUnion(artifacts []types.Artifact) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, a := range artifacts {
		for _, d := range a.Dependencies {
			if !seen[d] {
				seen[d] = true
				deps = append(deps, d)
			}
		}
	}
	sort.Strings(deps)
	return deps
}
