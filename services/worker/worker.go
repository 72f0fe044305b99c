package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/scraper"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/logger"
	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/feed"
)

// DefaultConcurrency bounds how many chains scrape at once
const DefaultConcurrency = 3

// ErrRunInFlight is returned when a chain already has a run going; the
// orchestrator never lets two runs of one chain race each other.
var ErrRunInFlight = errors.New("a run for this chain is already in flight")

// ChainRunner is one chain's adapter as the orchestrator drives it
type ChainRunner interface {
	Chain() string
	Run(ctx context.Context) scraper.Result
}

// RunTracker persists the audit row bracketing every run
type RunTracker interface {
	StartRun(ctx context.Context, chain string) (*storage.IngestionRun, error)
	FinishRun(ctx context.Context, run *storage.IngestionRun, status storage.RunStatus, counts storage.RunCounts, runErr error) error
}

// ExpirySweeper clears promo state whose advertised end date has passed
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Deps are the orchestrator's collaborators. Feed may be nil to
// disable stream housekeeping.
type Deps struct {
	Tracker RunTracker
	Sweeper ExpirySweeper
	Feed    feed.Publisher
}

// Options tune the orchestrator
type Options struct {
	// Concurrency caps how many chains run at the same time; within a
	// chain everything stays sequential
	Concurrency int
}

// Outcome is what one chain run reports back to the invoker
type Outcome struct {
	Chain      string
	Status     storage.RunStatus
	Counts     storage.RunCounts
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Failed reports whether the run ended short of completed
func (o Outcome) Failed() bool {
	return o.Status != storage.RunStatusCompleted
}

// Worker fans chain runs out to bounded goroutines and brackets each
// one with its audit row. At most one run per chain is in flight at a
// time, enforced here rather than in the database.
type Worker struct {
	runners map[string]ChainRunner
	order   []string
	deps    Deps
	opts    Options
	log     *logger.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewWorker creates an orchestrator over the given chain runners
func NewWorker(runners []ChainRunner, deps Deps, opts Options) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	w := &Worker{
		runners:  make(map[string]ChainRunner, len(runners)),
		deps:     deps,
		opts:     opts,
		log:      logger.ForWorker(),
		inflight: make(map[string]bool),
	}
	for _, r := range runners {
		if _, exists := w.runners[r.Chain()]; exists {
			continue
		}
		w.runners[r.Chain()] = r
		w.order = append(w.order, r.Chain())
	}
	return w
}

// FromRegistry adapts every registered adapter into a runner list
func FromRegistry(reg *scraper.Registry) []ChainRunner {
	adapters := reg.All()
	runners := make([]ChainRunner, 0, len(adapters))
	for _, a := range adapters {
		runners = append(runners, a)
	}
	return runners
}

// Chains lists the chains this worker can run, in registration order
func (w *Worker) Chains() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// RunChain executes one chain's ingestion run end to end: open the
// audit row, drive the adapter, finalize the row. A chain with a run
// already in flight is rejected without touching the tracker.
func (w *Worker) RunChain(ctx context.Context, chain string) Outcome {
	runner, ok := w.runners[chain]
	if !ok {
		return Outcome{
			Chain:  chain,
			Status: storage.RunStatusFailed,
			Err:    apperr.NewConfiguration(fmt.Sprintf("unknown chain %q", chain), nil),
		}
	}

	if !w.acquire(chain) {
		return Outcome{Chain: chain, Status: storage.RunStatusFailed, Err: ErrRunInFlight}
	}
	defer w.release(chain)

	started := time.Now().UTC()

	run, err := w.deps.Tracker.StartRun(ctx, chain)
	if err != nil {
		return Outcome{
			Chain:     chain,
			Status:    storage.RunStatusFailed,
			StartedAt: started,
			Err:       apperr.NewStorage(chain, "run row could not be opened", err),
		}
	}
	log := logger.ForRun(chain, run.ID.String())
	log.Info().Msg("Run started")

	result := runner.Run(ctx)
	finished := time.Now().UTC()

	if err := w.deps.Tracker.FinishRun(ctx, run, result.Status, result.Counts, result.Err); err != nil {
		log.Error().Err(err).Msg("Run row could not be finalized")
	}

	event := log.Info()
	if result.Status != storage.RunStatusCompleted {
		event = log.Error().Err(result.Err)
	}
	event.
		Str("status", string(result.Status)).
		Int("items_total", result.Counts.Total).
		Int("items_changed", result.Counts.Changed).
		Int("items_failed", result.Counts.Failed).
		Dur("duration", finished.Sub(started)).
		Msg("Run finished")

	return Outcome{
		Chain:      chain,
		Status:     result.Status,
		Counts:     result.Counts,
		StartedAt:  started,
		FinishedAt: finished,
		Err:        result.Err,
	}
}

// RunChains runs the named chains concurrently, bounded by the
// configured concurrency, and returns one outcome per requested chain
// in request order. A failed chain never stops the others.
func (w *Worker) RunChains(ctx context.Context, chains []string) []Outcome {
	outcomes := make([]Outcome, len(chains))
	sem := make(chan struct{}, w.opts.Concurrency)

	var wg sync.WaitGroup
	for i, chain := range chains {
		wg.Add(1)
		go func(i int, chain string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = w.RunChain(ctx, chain)
		}(i, chain)
	}
	wg.Wait()

	// Stream housekeeping after every batch
	if w.deps.Feed != nil {
		if err := w.deps.Feed.TrimStreams(); err != nil {
			w.log.Warn().Err(err).Msg("Stream trim failed")
		}
	}

	return outcomes
}

// RunAll runs every registered chain
func (w *Worker) RunAll(ctx context.Context) []Outcome {
	return w.RunChains(ctx, w.order)
}

// RunSweep runs the scheduled expiry sweep once
func (w *Worker) RunSweep(ctx context.Context) (int64, error) {
	log := logger.ForSweeper()

	cleared, err := w.deps.Sweeper.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("Expiry sweep failed")
		return cleared, err
	}
	if cleared > 0 {
		log.Info().Int64("cleared", cleared).Msg("Cleared expired promotions")
	}
	return cleared, nil
}

func (w *Worker) acquire(chain string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[chain] {
		return false
	}
	w.inflight[chain] = true
	return true
}

func (w *Worker) release(chain string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, chain)
}
