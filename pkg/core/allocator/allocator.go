package allocator

import (
	"context"
	"fmt"
	"slices"
)

// Phase is the lifecycle stage of an Allocator
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseRunning
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// DefaultThresholdMultipliers scale the pair count into the evaluation checkpoints.
// The largest threshold is the evaluation budget.
var DefaultThresholdMultipliers = []int{1, 10, 100}

// Allocator drives repeated greedy passes with random cancellation and keeps the best
// allocation seen
type Allocator struct {
	config AllocationConfig
	state  *AllocationState
	rng    RandomSource
	phase  Phase

	heurPubs   int
	thresholds []int

	evaluations int
	passes      int

	bestIndices   []int
	bestObjective float64

	checkpoints []Checkpoint
	recorded    int
}

// AllocationConfig contains the configuration for creating a new Allocator
type AllocationConfig struct {
	// Pool holds the authors and their attached candidates. Allocate mutates it.
	Pool *Pool

	// Counts are the organisation counts the global limits are derived from
	Counts OrgCounts

	// Limits are the quotas. The zero value means DefaultLimits().
	Limits Limits

	// Constraints replaces DefaultConstraints(Counts, Limits) when set
	Constraints []Constraint

	// ThresholdMultipliers are multiplied by the pair count to give the evaluation checkpoints
	// (default 1, 10, 100)
	ThresholdMultipliers []int

	// CancellationProbability is alpha: each accepted publication is revoked after a pass
	// when the random draw is <= alpha
	CancellationProbability float64

	// HeuristicTarget is the number of further acceptances the heuristic plans for in each
	// pass. Zero means int(PublicationCount × HeuristicRatio).
	HeuristicTarget int

	// HeuristicRatio scales PublicationCount into the heuristic target (default 1.0)
	HeuristicRatio float64

	// PublicationCount is P. Zero means the number of distinct publication ids in the pool.
	PublicationCount int

	// InitialSelection picks the publications marked accepted before the first pass
	InitialSelection InitialSelection

	// InitialPerAuthor is k for the top and random initial selections (default 1)
	InitialPerAuthor int

	// Random is the source for cancellation and random seeding. Nil means a source seeded with Seed.
	Random RandomSource

	// Seed seeds the default random source and is reported in the outcome
	Seed int64
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// Accepted is the best allocation found, in ranking order
	Accepted []AcceptedPublication

	// Objective is the total points of Accepted
	Objective float64

	// Checkpoints hold the best objective known at each evaluation threshold
	Checkpoints []Checkpoint

	Evaluations int
	Passes      int
	Seed        int64

	// HeuristicTarget is the heuristic acceptance target each pass started from
	HeuristicTarget int
}

// Allocate runs the whole improvement loop and returns the best verified allocation
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	return AllocateContext(context.Background(), config)
}

// AllocateContext is Allocate with ctx checked between passes. A cancelled run returns
// ctx.Err() and no outcome.
func AllocateContext(ctx context.Context, config AllocationConfig) (*AllocationOutcome, error) {
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	for !allocator.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := allocator.Step(); err != nil {
			return nil, err
		}
	}

	return allocator.Terminate()
}

// InitAllocation validates the configuration, computes thresholds and the heuristic target
// and applies the initial selection
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	if config.Pool == nil {
		return nil, fmt.Errorf("%w: allocation config has no pool", ErrMalformedInput)
	}
	if config.CancellationProbability < 0 || config.CancellationProbability > 1 {
		return nil, fmt.Errorf("%w: cancellation probability %.3f outside [0, 1]",
			ErrMalformedInput, config.CancellationProbability)
	}

	if config.Limits == (Limits{}) {
		config.Limits = DefaultLimits()
	}
	if len(config.Constraints) == 0 {
		config.Constraints = DefaultConstraints(config.Counts, config.Limits)
	}
	if len(config.ThresholdMultipliers) == 0 {
		config.ThresholdMultipliers = DefaultThresholdMultipliers
	}
	if config.HeuristicRatio == 0 {
		config.HeuristicRatio = 1.0
	}
	if config.Random == nil {
		config.Random = NewRandomSource(config.Seed)
	}

	a := &Allocator{
		config:        config,
		state:         NewAllocationState(config.Pool, config.Constraints),
		rng:           config.Random,
		phase:         PhaseInitializing,
		thresholds:    buildThresholds(config.Pool.PairCount(), config.ThresholdMultipliers),
		heurPubs:      heuristicTarget(config),
		bestIndices:   []int{},
		bestObjective: 0,
		checkpoints:   []Checkpoint{},
	}

	if err := applyInitialSelection(a.state, config.InitialSelection, config.InitialPerAuthor, a.rng); err != nil {
		return nil, fmt.Errorf("failed to apply initial selection: %w", err)
	}

	return a, nil
}

// StepReport summarises one pass of the improvement loop
type StepReport struct {
	Pass PassResult

	// Improved is true when the pass produced a new best objective
	Improved bool

	// Cancelled are the publications revoked after the pass
	Cancelled []int

	// BestObjective is the best objective after this step
	BestObjective float64
}

// Step runs one iteration: re-rank, greedy pass, best update, checkpoints, cancellation.
// Cancellation is skipped once the evaluation budget is spent so the final state is the
// pass result.
func (a *Allocator) Step() (StepReport, error) {
	if a.phase == PhaseTerminated {
		return StepReport{}, fmt.Errorf("allocation already terminated")
	}
	a.phase = PhaseRunning

	ranked := RankCandidates(a.state.Pool)
	pass, err := RunGreedyPass(a.state, ranked, a.heurPubs)
	if err != nil {
		return StepReport{}, fmt.Errorf("failed greedy pass %d: %w", a.passes+1, err)
	}

	a.evaluations += pass.Evaluations
	a.passes++

	report := StepReport{Pass: pass, Cancelled: []int{}}

	if pass.Objective > a.bestObjective {
		a.bestObjective = pass.Objective
		a.bestIndices = a.state.Pool.AcceptedIndices()
		report.Improved = true
	}

	a.recordCheckpoints()

	if !a.Done() {
		cancelled, err := a.cancel()
		if err != nil {
			return report, err
		}
		report.Cancelled = cancelled
	}

	report.BestObjective = a.bestObjective
	return report, nil
}

// Done reports whether the evaluation budget is spent
func (a *Allocator) Done() bool {
	return a.phase == PhaseTerminated || a.evaluations >= a.budget()
}

// Phase returns the current lifecycle stage
func (a *Allocator) Phase() Phase {
	return a.phase
}

// State exposes the live allocation state
func (a *Allocator) State() *AllocationState {
	return a.state
}

// Thresholds returns the evaluation checkpoints in ascending order
func (a *Allocator) Thresholds() []int {
	return slices.Clone(a.thresholds)
}

// Terminate verifies the best allocation and builds the outcome.
//
// The best snapshot is replayed onto a fresh copy of the pool and every constraint is
// validated against it. Any violation is returned as *InvariantError.
func (a *Allocator) Terminate() (*AllocationOutcome, error) {
	a.recordCheckpoints()
	a.phase = PhaseTerminated

	if violations := validateBookkeeping(a.state); len(violations) > 0 {
		return nil, &InvariantError{Violations: violations}
	}

	final := a.replayBest()
	if violations := ValidateAllocation(final); len(violations) > 0 {
		return nil, &InvariantError{Violations: violations}
	}

	return a.buildOutcome(final), nil
}

// cancel revokes each accepted publication, in ranking order, with probability alpha
func (a *Allocator) cancel() ([]int, error) {
	cancelled := []int{}
	for _, idx := range RankAccepted(a.state.Pool) {
		if a.rng.Float64() > a.config.CancellationProbability {
			continue
		}
		if err := a.state.Revoke(idx); err != nil {
			return cancelled, fmt.Errorf("failed to cancel publication %d: %w", idx, err)
		}
		cancelled = append(cancelled, idx)
	}
	return cancelled, nil
}

// recordCheckpoints appends a checkpoint for every threshold the evaluation counter has reached
func (a *Allocator) recordCheckpoints() {
	for a.recorded < len(a.thresholds) && a.evaluations >= a.thresholds[a.recorded] {
		a.checkpoints = append(a.checkpoints, Checkpoint{
			Threshold:   a.thresholds[a.recorded],
			Evaluations: a.evaluations,
			Objective:   a.bestObjective,
		})
		a.recorded++
	}
}

// replayBest rebuilds a state holding exactly the best snapshot on a copy of the pool
func (a *Allocator) replayBest() *AllocationState {
	pool := a.state.Pool.Clone()
	pool.resetAcceptance()
	for _, idx := range a.bestIndices {
		pool.markAccepted(idx)
	}
	return NewAllocationState(pool, a.state.Constraints)
}

func (a *Allocator) buildOutcome(final *AllocationState) *AllocationOutcome {
	accepted := []AcceptedPublication{}
	for _, idx := range RankAccepted(final.Pool) {
		pub := &final.Pool.Publications[idx]
		author := &final.Pool.Authors[pub.AuthorIndex]
		accepted = append(accepted, AcceptedPublication{
			PublicationID:  pub.ID,
			AuthorID:       author.ID,
			AuthorIndex:    pub.AuthorIndex,
			CatalogueIndex: pub.CatalogueIndex,
			IsMonograph:    pub.IsMonograph,
			Points:         pub.Points,
			Contribution:   pub.Contribution,
		})
	}

	return &AllocationOutcome{
		Accepted:    accepted,
		Objective:   a.bestObjective,
		Checkpoints: slices.Clone(a.checkpoints),
		Evaluations: a.evaluations,
		Passes:      a.passes,
		Seed:        a.config.Seed,

		HeuristicTarget: a.heurPubs,
	}
}

func (a *Allocator) budget() int {
	if len(a.thresholds) == 0 {
		return 0
	}
	return a.thresholds[len(a.thresholds)-1]
}

// buildThresholds multiplies the pair count by each multiplier, sorted and de-duplicated
func buildThresholds(pairCount int, multipliers []int) []int {
	thresholds := make([]int, 0, len(multipliers))
	for _, m := range multipliers {
		if m > 0 {
			thresholds = append(thresholds, pairCount*m)
		}
	}
	slices.Sort(thresholds)
	return slices.Compact(thresholds)
}

func heuristicTarget(config AllocationConfig) int {
	if config.HeuristicTarget > 0 {
		return config.HeuristicTarget
	}
	count := config.PublicationCount
	if count <= 0 {
		count = distinctPublicationIDs(config.Pool)
	}
	return int(float64(count) * config.HeuristicRatio)
}

func distinctPublicationIDs(pool *Pool) int {
	distinct := make(map[string]struct{}, len(pool.Publications))
	for i := range pool.Publications {
		distinct[pool.Publications[i].ID] = struct{}{}
	}
	return len(distinct)
}
