package main

import (
	"codeforge/internal/compose"
	"codeforge/internal/config"
	"codeforge/internal/extract"
	"codeforge/internal/logging"
	"codeforge/internal/pipeline"
	"codeforge/internal/provider"
	"codeforge/internal/rewrite"
	"codeforge/internal/scope"
	"codeforge/internal/store"
	"codeforge/internal/types"
	"codeforge/internal/validate"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - scope-aware code generation pipeline",
	Long: `forge turns a natural-language request into a set of source files.

A request is classified into a scope tier, composed into a structured
generation instruction, sent to a provider backend, and the response is
extracted, validated, and rewritten into sandbox-compatible artifacts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

type configKey struct{}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

var (
	generateOut       string
	generateSkipVal   bool
	generateDryRun    bool
	generateStrict    bool
	generateFramework string
	generateLanguage  string
	generateProvider  string
)

var generateCmd = &cobra.Command{
	Use:   "generate [request...]",
	Short: "Generate code from a natural-language request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		if generateOut != "" {
			cfg.Pipeline.OutputDir = generateOut
		}
		if generateSkipVal {
			cfg.Pipeline.SkipValidation = true
		}
		if generateProvider != "" {
			cfg.Provider.Backend = generateProvider
		}

		client, appGen, err := buildProvider(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		orch := buildOrchestrator(client, appGen, cfg)
		req := types.NewRequest(strings.Join(args, " "))
		if generateFramework != "" {
			req.Framework = generateFramework
		}
		if generateLanguage != "" {
			req.Language = generateLanguage
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		result := orch.Execute(ctx, req)
		recordRun(cfg, req, result)

		printSummary(cmd, result)
		if !result.Success {
			return fmt.Errorf("generation failed: %s", result.Error)
		}
		if generateStrict {
			for _, a := range result.Artifacts {
				if !a.Metadata.Validated {
					return fmt.Errorf("strict mode: artifact %s did not pass validation", a.Name)
				}
			}
		}
		if generateDryRun {
			return nil
		}
		return writeArtifacts(cmd, cfg.Pipeline.OutputDir, result.Artifacts)
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)

		runs, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer runs.Close()

		records, err := runs.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Println("No runs recorded.")
			return nil
		}

		for _, r := range records {
			status := "ok"
			if !r.Success {
				status = "FAILED"
			}
			cmd.Printf("%s  %-7s %-17s artifacts=%-3d quality=%5.1f  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				status, r.Scope, r.ArtifactCount, r.QualityScore, truncate(r.Prompt, 60))
		}
		return nil
	},
}

// mockResponse is the canned completion served by the offline mock
// backend so dry runs exercise the whole pipeline.
const mockResponse = `component:Sample:tsx:src/components/Sample.tsx
import React from 'react';

export const Sample = () => {
  return <div>sample output</div>;
};

export default Sample;
`

// buildProvider constructs the configured backend. The fullstack
// sub-generator always wraps the same client.
func buildProvider(ctx context.Context, cfg *config.Config) (provider.LLMClient, *provider.AppGenerator, error) {
	var client provider.LLMClient
	switch cfg.Provider.Backend {
	case "gemini":
		g, err := provider.NewGeminiClient(ctx, cfg.Provider.APIKey, cfg.Provider.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		client = g
	case "mock":
		client = provider.NewMockClient(mockResponse)
	case "", "http":
		client = provider.NewHTTPClient(provider.HTTPConfig{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Provider.Model,
			Timeout: cfg.GetProviderTimeout(),
		})
	default:
		return nil, nil, fmt.Errorf("unknown provider backend %q", cfg.Provider.Backend)
	}
	return client, provider.NewAppGenerator(client), nil
}

func buildOrchestrator(client provider.LLMClient, appGen *provider.AppGenerator, cfg *config.Config) *pipeline.Orchestrator {
	rewriter := rewrite.NewRewriter(logger)
	return pipeline.NewOrchestrator(
		scope.NewClassifier(),
		compose.NewComposer(nil, logger),
		provider.NewInvoker(client, appGen, logger),
		extract.NewExtractor(logger),
		validate.NewStage(validate.NewStaticValidator(), rewriter, cfg.Pipeline.SkipValidation, logger),
		rewriter,
		logger,
	)
}

// recordRun persists the run outcome. History is best-effort; storage
// failures are logged and never fail the command.
func recordRun(cfg *config.Config, req types.GenerationRequest, result types.Result) {
	runs, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Warn("run history unavailable", zap.Error(err))
		return
	}
	defer runs.Close()
	if err := runs.Record(req, result); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

func printSummary(cmd *cobra.Command, result types.Result) {
	cmd.Printf("Scope:      %s (%s, confidence %.2f)\n",
		result.Scope.Scope, result.Scope.Tier, result.Scope.Confidence)
	cmd.Printf("Artifacts:  %d\n", len(result.Artifacts))
	cmd.Printf("Quality:    %.1f\n", result.QualityScore)
	if len(result.Dependencies) > 0 {
		cmd.Printf("Depends on: %s\n", strings.Join(result.Dependencies, ", "))
	}
	cmd.Printf("Duration:   %s\n", result.Duration.Round(time.Millisecond))
	for _, w := range result.Warnings {
		cmd.Printf("warning: %s\n", w)
	}
}

func writeArtifacts(cmd *cobra.Command, outDir string, artifacts []types.Artifact) error {
	for _, a := range artifacts {
		target := filepath.Join(outDir, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		body := a.Body
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		if err := os.WriteFile(target, []byte(body), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		cmd.Printf("wrote %s\n", target)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "forge.yaml", "path to config file")

	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output directory (overrides config)")
	generateCmd.Flags().BoolVar(&generateSkipVal, "skip-validation", false, "skip the validation stage")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "run the pipeline without writing files")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "fail when any artifact does not pass validation")
	generateCmd.Flags().StringVar(&generateFramework, "framework", "", "target framework tag (default react)")
	generateCmd.Flags().StringVar(&generateLanguage, "language", "", "target language tag (default typescript)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "provider backend: http, gemini, or mock")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
