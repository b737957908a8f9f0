package validate

import (
	"context"
	"fmt"

	"codeforge/internal/rewrite"
	"codeforge/internal/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage runs validation over an artifact list. Artifacts are independent,
// so the fan-out is concurrent; results are written back by index so
// output order always matches input order.
type Stage struct {
	validator Validator
	rewriter  *rewrite.Rewriter
	skip      bool
	log       *zap.Logger
}

// NewStage creates a validation stage. When skip is true the stage
// records every artifact as unvalidated and does nothing else; the
// unconditional compatibility rewrites still happen downstream.
func NewStage(validator Validator, rewriter *rewrite.Rewriter, skip bool, log *zap.Logger) *Stage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stage{validator: validator, rewriter: rewriter, skip: skip, log: log}
}

// Run validates every artifact, applying the rewrite-and-recheck-once
// policy to failures. language is the request's target language tag,
// handed to the validator as-is. Run never fails the pipeline: validator
// errors and persistent failures come back as warnings, and every
// artifact is kept.
func (s *Stage) Run(ctx context.Context, artifacts []types.Artifact, language string) ([]types.Artifact, []string) {
	if s.skip {
		return artifacts, []string{"validation skipped by configuration"}
	}
	if len(artifacts) == 0 {
		return artifacts, nil
	}

	warnings := make([][]string, len(artifacts))
	g, gctx := errgroup.WithContext(ctx)

	for i := range artifacts {
		g.Go(func() error {
			warnings[i] = s.validateOne(gctx, &artifacts[i], language)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var merged []string
	for _, w := range warnings {
		merged = append(merged, w...)
	}
	return artifacts, merged
}

// validateOne checks a single artifact, rewriting and re-validating once
// on failure. The artifact is annotated in place.
func (s *Stage) validateOne(ctx context.Context, a *types.Artifact, language string) []string {
	outcome, err := s.validator.Validate(ctx, a.Body, language)
	if err != nil {
		s.log.Warn("validator error", zap.String("artifact", a.Name), zap.Error(err))
		return []string{fmt.Sprintf("validation of %s errored: %v", a.Name, err)}
	}

	if outcome.Passed {
		a.Metadata.Validated = true
		a.Metadata.Validation = &outcome
		return nil
	}

	// One corrective pass, one recheck. Still failing means the artifact
	// ships annotated rather than being dropped.
	changes := s.rewriter.RewriteArtifact(a)
	s.log.Debug("artifact failed validation, rewritten",
		zap.String("artifact", a.Name),
		zap.Strings("changes", changes))

	second, err := s.validator.Validate(ctx, a.Body, language)
	if err != nil {
		a.Metadata.Validation = &outcome
		return []string{fmt.Sprintf("re-validation of %s errored: %v", a.Name, err)}
	}

	a.Metadata.Validated = second.Passed
	a.Metadata.Validation = &second
	if !second.Passed {
		return []string{fmt.Sprintf("%s failed validation after corrective rewrite (score %.0f)", a.Name, second.Score)}
	}
	return nil
}
