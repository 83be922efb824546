// Package orchestrator runs the per-claim debate loop: round-based Pro/Con query generation and search fan-out, sequential
// edge addition, and judge arbitration under a per-claim deadline.
package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veridex-ai/factdebate/internal/agent"
	"github.com/veridex-ai/factdebate/internal/attackdetector"
	"github.com/veridex-ai/factdebate/internal/evidencepool"
	"github.com/veridex-ai/factdebate/internal/graph"
	"github.com/veridex-ai/factdebate/internal/judge"
	"github.com/veridex-ai/factdebate/internal/model"
	"github.com/veridex-ai/factdebate/internal/retrieval"
	"github.com/veridex-ai/factdebate/internal/telemetry"
)

// Config holds the run parameters that govern one claim's debate.
type Config struct {
	MaxRounds           int
	SearchTopK           int
	AttackMode           model.AttackMode
	PriorityEpsilon      float64
	ConcurrentSearches   int
	ClaimDeadline        time.Duration
	CredibilityWhitelist retrieval.CredibilityWhitelist
}

// Orchestrator wires together the agent controllers, search client, attack
// detector, and judge for one claim run.
type Orchestrator struct {
	cfg      Config
	pro      *agent.Controller
	con      *agent.Controller
	search   retrieval.SearchClient
	detector *attackdetector.Detector
	judge    *judge.Judge
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

func New(cfg Config, pro, con *agent.Controller, search retrieval.SearchClient, detector *attackdetector.Detector, j *judge.Judge, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, pro: pro, con: con, search: search, detector: detector, judge: j, logger: logger}
}

// WithMetrics attaches a telemetry.Metrics instance for counting evidence,
// edges, and LLM calls. Optional: a nil metrics
// instance keeps every counter call a no-op.
func (o *Orchestrator) WithMetrics(m *telemetry.Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// RunResult is everything one claim's debate produced: the verdict plus the
// graph and pool state needed for logging.
type RunResult struct {
	Verdict             model.Verdict
	Graph               *graph.Graph
	Pool                *evidencepool.Pool
	DeadlineExceeded    bool
	ExternalUnavailable bool
}

// RunClaim executes the full per-claim round loop. It never
// returns an error for ordinary debate failures (unreachable search, LLM
// errors); those degrade per component (empty search results, fallback
// attack checks, fallback stances) so that every claim completes in a
// well-defined state.
func (o *Orchestrator) RunClaim(ctx context.Context, claim string) RunResult {
	deadline := o.cfg.ClaimDeadline
	if deadline <= 0 {
		deadline = 10 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	pool := evidencepool.New()
	g := graph.New(claim, o.cfg.AttackMode, o.cfg.PriorityEpsilon)

	var priorQueriesMu sync.Mutex
	var priorQueries []string

	deadlineExceeded := false
	var llmAttempts, llmFailures, searchAttempts, searchFailures int

rounds:
	for round := 1; round <= o.cfg.MaxRounds; round++ {
		select {
		case <-runCtx.Done():
			deadlineExceeded = true
			break rounds
		default:
		}

		proQueries, conQueries, qAttempts, qFailures := o.generateQueries(runCtx, claim, round, pool, &priorQueriesMu, &priorQueries)
		llmAttempts += qAttempts
		llmFailures += qFailures
		if runCtx.Err() != nil {
			deadlineExceeded = true
			break rounds
		}

		allQueries := make([]queryJob, 0, len(proQueries)+len(conQueries))
		for _, q := range proQueries {
			allQueries = append(allQueries, queryJob{agent: model.AgentPro, query: q})
		}
		for _, q := range conQueries {
			allQueries = append(allQueries, queryJob{agent: model.AgentCon, query: q})
		}

		sAttempts, sFailures := o.runSearches(runCtx, allQueries, round, pool, g)
		searchAttempts += sAttempts
		searchFailures += sFailures
		if runCtx.Err() != nil {
			deadlineExceeded = true
			break rounds
		}

		proposals := o.detector.Run(runCtx, g.Snapshot(), round, o.cfg.PriorityEpsilon)
		for _, p := range proposals {
			if g.AddAttack(p.Attacker, p.Target, p.Rationale, round) {
				o.metrics.IncEdgeAccepted(runCtx)
			} else {
				o.metrics.IncEdgeRejected(runCtx)
			}
		}
	}

	if deadlineExceeded || runCtx.Err() != nil {
		o.logger.Warn("claim deadline exceeded", "claim", claim)
		return RunResult{
			Verdict: model.Verdict{
				Decision:         model.NotEnoughEvidence,
				Confidence:       0.3,
				Reasoning:        "the per-claim deadline elapsed before the debate completed",
				DeadlineExceeded: true,
			},
			Graph:            g,
			Pool:             pool,
			DeadlineExceeded: true,
		}
	}

	// Both backends are unusable when every LLM attempt errored and search
	// either never ran (no queries ever reached it) or errored on every
	// attempt too, with no evidence ever reaching the graph.
	externalUnavailable := g.NodeCount() == 0 &&
		llmAttempts > 0 && llmFailures == llmAttempts &&
		(searchAttempts == 0 || searchFailures == searchAttempts)
	if externalUnavailable {
		o.logger.Error("external services unavailable for claim", "claim", claim,
			"llm_attempts", llmAttempts, "llm_failures", llmFailures,
			"search_attempts", searchAttempts, "search_failures", searchFailures)
		return RunResult{
			Verdict: model.Verdict{
				Decision:            model.NotEnoughEvidence,
				Confidence:          0.3,
				Reasoning:           "the LLM backend and the search backend were both unreachable; the claim could not be processed",
				ExternalUnavailable: true,
			},
			Graph:               g,
			Pool:                pool,
			ExternalUnavailable: true,
		}
	}

	verdict := o.judge.Decide(runCtx, g.Snapshot())
	return RunResult{Verdict: verdict, Graph: g, Pool: pool}
}

// generateQueries runs Pro and Con query generation concurrently for one
// round. It also reports how many of the two attempts failed, so the caller
// can tell an LLM outage apart from a round that legitimately produced no
// new queries.
func (o *Orchestrator) generateQueries(ctx context.Context, claim string, round int, pool *evidencepool.Pool, mu *sync.Mutex, priorQueries *[]string) ([]string, []string, int, int) {
	var proQ, conQ []string
	var failures int32

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opposing := pool.GetByAgent(model.AgentCon, -1)
		mu.Lock()
		prior := append([]string(nil), (*priorQueries)...)
		mu.Unlock()
		qs, err := o.pro.GenerateQueries(gCtx, claim, round, opposing, prior)
		if err != nil {
			o.logger.Warn("pro query generation failed", "error", err)
			atomic.AddInt32(&failures, 1)
			return nil
		}
		proQ = qs
		return nil
	})
	g.Go(func() error {
		opposing := pool.GetByAgent(model.AgentPro, -1)
		mu.Lock()
		prior := append([]string(nil), (*priorQueries)...)
		mu.Unlock()
		qs, err := o.con.GenerateQueries(gCtx, claim, round, opposing, prior)
		if err != nil {
			o.logger.Warn("con query generation failed", "error", err)
			atomic.AddInt32(&failures, 1)
			return nil
		}
		conQ = qs
		return nil
	})
	_ = g.Wait()

	mu.Lock()
	*priorQueries = append(*priorQueries, proQ...)
	*priorQueries = append(*priorQueries, conQ...)
	mu.Unlock()

	return proQ, conQ, 2, int(atomic.LoadInt32(&failures))
}

type queryJob struct {
	agent model.Agent
	query string
}

type searchOutcome struct {
	job  queryJob
	hits []retrieval.Hit
}

// runSearches fans searches out with a bounded worker pool and adds all resulting evidence to the pool and
// graph sequentially once every search of the round has returned: all Pro
// results first, then all Con results, each side in the order its searches
// completed. It reports how many of the round's search attempts
// failed, so the caller can distinguish a search outage from queries that
// simply returned no hits.
func (o *Orchestrator) runSearches(ctx context.Context, jobs []queryJob, round int, pool *evidencepool.Pool, g *graph.Graph) (attempts, failures int) {
	if len(jobs) == 0 {
		return 0, 0
	}

	limit := o.cfg.ConcurrentSearches
	if limit <= 0 {
		limit = 4
	}

	var resultsMu sync.Mutex
	results := make([]searchOutcome, 0, len(jobs))
	var failureCount int32
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, job := range jobs {
		job := job
		eg.Go(func() error {
			hits, err := o.search.Search(egCtx, job.query)
			if err != nil {
				o.logger.Warn("search failed", "query", job.query, "error", err)
				atomic.AddInt32(&failureCount, 1)
				return nil
			}
			resultsMu.Lock()
			results = append(results, searchOutcome{job: job, hits: hits})
			resultsMu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].job.agent == model.AgentPro && results[b].job.agent != model.AgentPro
	})

	now := time.Now()
	topK := o.cfg.SearchTopK
	if topK <= 0 {
		topK = 5
	}
	for _, outcome := range results {
		hits := outcome.hits
		if len(hits) > topK {
			hits = hits[:topK]
		}
		for _, hit := range hits {
			ev, err := retrieval.BuildEvidence(hit, o.cfg.CredibilityWhitelist, outcome.job.agent, round, outcome.job.query, now)
			if err != nil {
				continue
			}
			if pool.Add(ev) {
				g.AddEvidenceNode(ev)
				o.metrics.IncEvidenceInserted(ctx, 1)
			}
		}
	}

	return len(jobs), int(atomic.LoadInt32(&failureCount))
}
