package search

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/logging"
	"atelier/internal/types"
)

// Orchestrator runs the tier cascade.
type Orchestrator struct {
	tiers      []Tier
	lastResort Procedural
	history    *History
	timeout    time.Duration
	now        Clock
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds one full cascade run.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithHistory records completed searches into h.
func WithHistory(h *History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// WithClock overrides the clock used for backfill and history timestamps.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.now = c }
}

// NewOrchestrator builds an orchestrator over tiers, tried in order. lastResort
// runs directly when every tier comes back empty.
func NewOrchestrator(tiers []Tier, lastResort Procedural, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tiers:      tiers,
		lastResort: lastResort,
		history:    NewHistory(DefaultHistorySize),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tiers returns the names of the configured tiers in order.
func (o *Orchestrator) Tiers() []string {
	names := make([]string, 0, len(o.tiers))
	for _, t := range o.tiers {
		names = append(names, t.Name())
	}
	return names
}

// History returns the orchestrator-wide recent searches.
func (o *Orchestrator) History() *History {
	return o.history
}

// Search runs the cascade, records the search and returns its candidates.
// It never fails.
func (o *Orchestrator) Search(ctx context.Context, query, hint string) []types.ProductCandidate {
	return o.Execute(ctx, Query{Text: query, Category: hint}).Candidates
}

// Execute is Search keeping the full Result (answering tier, failures).
// Per-client sessions keep their own history and call Run instead.
func (o *Orchestrator) Execute(ctx context.Context, q Query) Result {
	res := o.Run(ctx, q)
	o.history.Add(types.SearchRecord{Query: res.Query.Text, Timestamp: o.now(), ResultCount: len(res.Candidates)})
	return res
}

// Run folds over the tiers and stops at the first non-empty answer.
func (o *Orchestrator) Run(ctx context.Context, q Query) Result {
	q = q.Normalized()
	start := time.Now()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	res := Result{Query: q}
	for _, tier := range o.tiers {
		candidates, err := o.try(ctx, tier, q)
		if err != nil {
			f := TierFailure{Tier: tier.Name(), Err: err}
			res.Failures = append(res.Failures, f)
			logTierFailure(q, f)
			continue
		}
		res.Candidates = candidates
		res.Tier = tier.Name()
		break
	}

	if len(res.Candidates) == 0 && o.lastResort != nil {
		logging.SearchWarn("All tiers empty for %q, generating directly", q.Text)
		// The caller's deadline may already be spent; generation is local.
		res.Candidates = o.lastResort.Generate(context.WithoutCancel(ctx), q.Text)
		res.Tier = "procedural"
	}

	batch := o.now()
	for i := range res.Candidates {
		res.Candidates[i] = Backfill(res.Candidates[i], batch, i)
	}

	elapsed := time.Since(start)
	logging.Search("Search %q answered by %s: %d results in %v (%d failures)",
		q.Text, res.Tier, len(res.Candidates), elapsed, len(res.Failures))
	logging.Audit(logging.CategorySearch).SearchComplete(q.Text, res.Tier, len(res.Candidates), elapsed)
	return res
}

// try runs one tier, converting panics and empty answers into failures.
func (o *Orchestrator) try(ctx context.Context, tier Tier, q Query) (out []types.ProductCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tier panicked: %v", r)
		}
	}()
	out, err = tier.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}
