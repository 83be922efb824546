// Command factdebate runs the adversarial debate fact-checking pipeline
// against a single claim or a batch dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/veridex-ai/factdebate/internal/agent"
	"github.com/veridex-ai/factdebate/internal/attackdetector"
	"github.com/veridex-ai/factdebate/internal/config"
	"github.com/veridex-ai/factdebate/internal/dataset"
	"github.com/veridex-ai/factdebate/internal/judge"
	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
	"github.com/veridex-ai/factdebate/internal/orchestrator"
	"github.com/veridex-ai/factdebate/internal/report"
	"github.com/veridex-ai/factdebate/internal/retrieval"
	"github.com/veridex-ai/factdebate/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

// Exit codes: 0 success, 2 configuration error, 3 external-service
// unavailable.
const (
	exitSuccess = 0
	exitConfig  = 2
	exitService = 3
)

func main() {
	os.Exit(run0())
}

func run0() int {
	claim := flag.String("claim", "", "single claim to fact-check")
	datasetPath := flag.String("dataset", "", "path to a JSONL or YAML claim set (batch mode)")
	outputDir := flag.String("output", "", "output directory for batch-mode results")
	maxSamples := flag.Int("max-samples", 0, "maximum number of claims to process (0 = all)")
	rounds := flag.Int("rounds", 0, "override the configured number of debate rounds (0 = use config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return exitConfig
	}

	if *claim == "" && *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "one of --claim or --dataset is required")
		return exitConfig
	}

	level := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *rounds > 0 {
		cfg.MaxRounds = *rounds
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *maxSamples > 0 {
		cfg.MaxSamples = *maxSamples
	}

	code, err := run(ctx, cfg, logger, *claim, *datasetPath)
	if err != nil {
		logger.Error("fatal error", "error", err)
	}
	return code
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, claim, datasetPath string) (int, error) {
	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return exitConfig, fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	metrics, err := telemetry.NewMetrics("factdebate.orchestrator")
	if err != nil {
		return exitConfig, fmt.Errorf("telemetry: metrics: %w", err)
	}

	o, err := buildOrchestrator(cfg, logger, metrics)
	if err != nil {
		return exitService, err
	}
	o = o.WithMetrics(metrics)

	if claim != "" {
		result := o.RunClaim(ctx, claim)
		report.Verdict(os.Stdout, claim, result.Verdict)
		if result.ExternalUnavailable {
			return exitService, fmt.Errorf("external services unavailable: the LLM backend and the search backend both failed")
		}
		return exitSuccess, nil
	}

	claims, err := dataset.Load(datasetPath)
	if err != nil {
		return exitConfig, fmt.Errorf("dataset: %w", err)
	}
	claims = dataset.Slice(claims, cfg.StartIndex, cfg.MaxSamples)

	stats, err := o.RunBatch(ctx, claims, orchestrator.BatchConfig{
		OutputDir:   cfg.OutputDir,
		ResultsName: cfg.ResultsName,
	})
	if err != nil {
		return exitService, fmt.Errorf("batch run: %w", err)
	}
	report.Stats(os.Stdout, stats)
	return exitSuccess, nil
}

// buildOrchestrator wires the LLM backend, search backend, and debate
// components from configuration.
func buildOrchestrator(cfg config.Config, logger *slog.Logger, metrics *telemetry.Metrics) (*orchestrator.Orchestrator, error) {
	var chatClient llmchain.ChatClient
	switch cfg.LLMProvider {
	case "openai":
		chatClient = llmchain.NewOpenAIChatClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
	default:
		chatClient = llmchain.NewOllamaChatClient(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMTimeout)
	}
	chatClient = llmchain.NewInstrumentedChatClient(chatClient, metrics)

	proChain := llmchain.NewProQueryChain(chatClient)
	conChain := llmchain.NewConQueryChain(chatClient)
	attackChain := llmchain.NewAttackCheckChain(chatClient)
	stanceChain := llmchain.NewStanceCheckChain(chatClient)
	verdictChain := llmchain.NewVerdictGenChain(chatClient)

	pro := agent.NewPro(proChain)
	con := agent.NewCon(conChain)

	attackMode := model.AttackModeStrict
	if cfg.AttackMode == "relaxed" {
		attackMode = model.AttackModeRelaxed
	}
	detector := attackdetector.New(attackChain, attackMode)
	j := judge.New(stanceChain, verdictChain)

	searchClient := retrieval.NewJinaSearchClient(cfg.JinaAPIKey, cfg.SearchTopK, cfg.SearchTimeout)

	orchCfg := orchestrator.Config{
		MaxRounds:          cfg.MaxRounds,
		SearchTopK:         cfg.SearchTopK,
		AttackMode:         attackMode,
		PriorityEpsilon:    cfg.PriorityEpsilon,
		ConcurrentSearches: cfg.ConcurrentSearches,
		ClaimDeadline:      cfg.ClaimDeadline,
		CredibilityWhitelist: retrieval.CredibilityWhitelist{
			Suffixes: cfg.CredibilityWhitelist,
		},
	}

	return orchestrator.New(orchCfg, pro, con, searchClient, detector, j, logger), nil
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
