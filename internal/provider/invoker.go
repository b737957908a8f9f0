package provider

import (
	"context"
	"fmt"

	"codeforge/internal/types"

	"go.uber.org/zap"
)

// InvokeResult carries whichever shape the backend produced. Files is set
// only when the sub-generator returned a structured payload; in that case
// RawText is empty and extraction is bypassed.
type InvokeResult struct {
	RawText  string
	Files    []FileSpec
	Backend  string
	Warnings []string
}

// Invoker selects the generation path for a scope and owns the
// fallback-on-failure chain: sub-generator errors fall back to the
// generic client, generic client errors are fatal for the stage.
type Invoker struct {
	client LLMClient
	appGen *AppGenerator
	log    *zap.Logger
}

// NewInvoker creates an Invoker. appGen may be nil, in which case the
// fullstack tier uses the generic client directly.
func NewInvoker(client LLMClient, appGen *AppGenerator, log *zap.Logger) *Invoker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Invoker{client: client, appGen: appGen, log: log}
}

// optionsFor fixes the token budget by tier. Temperature is constant:
// generation output must stay parseable, not creative.
func optionsFor(scope types.ScopeDetection) Options {
	opts := Options{Temperature: 0.2}
	switch scope.Tier {
	case types.TierSimple:
		opts.MaxTokens = 4096
	case types.TierModerate:
		opts.MaxTokens = 8192
	default:
		opts.MaxTokens = 16384
	}
	return opts
}

// Invoke runs the composed instruction against the backend appropriate
// for the scope.
func (inv *Invoker) Invoke(ctx context.Context, instruction string, scope types.ScopeDetection) (InvokeResult, error) {
	opts := optionsFor(scope)

	if scope.Scope == types.ScopeFullstack && inv.appGen != nil {
		files, raw, err := inv.appGen.Generate(ctx, instruction, opts)
		if err == nil {
			if len(files) > 0 {
				return InvokeResult{Files: files, Backend: "appgen"}, nil
			}
			return InvokeResult{RawText: raw, Backend: "appgen"}, nil
		}

		inv.log.Warn("app generator failed, falling back to generic provider",
			zap.Error(err))
		result, fbErr := inv.completeGeneric(ctx, instruction, opts)
		if fbErr != nil {
			return InvokeResult{}, fbErr
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("app generator failed (%v); generic provider used instead", err))
		return result, nil
	}

	return inv.completeGeneric(ctx, instruction, opts)
}

func (inv *Invoker) completeGeneric(ctx context.Context, instruction string, opts Options) (InvokeResult, error) {
	raw, err := inv.client.Complete(ctx, instruction, opts)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("generation provider %s: %w", inv.client.Name(), err)
	}
	return InvokeResult{RawText: raw, Backend: inv.client.Name()}, nil
}
