package model

//
// Campaign arms
//

import (
	"errors"
	"fmt"
)

// StrategyKind is the kind of selection strategy an arm uses.
type StrategyKind string

const (
	// StrategyExhaustive probes every authorized target.
	StrategyExhaustive = StrategyKind("exhaustive")

	// StrategyEpsilonAdaptive ranks targets per agent and mixes
	// exploitation and exploration according to epsilon.
	StrategyEpsilonAdaptive = StrategyKind("epsilon-adaptive")

	// StrategyRandomShared dispatches random targets under a
	// budget shared by all the agents.
	StrategyRandomShared = StrategyKind("random-shared")

	// StrategyEpsilonSharedAdaptive ranks targets per agent and then
	// dispatches them under a budget shared by all the agents.
	StrategyEpsilonSharedAdaptive = StrategyKind("epsilon-shared-adaptive")
)

// ErrUnknownStrategyKind indicates that a strategy kind is not known.
var ErrUnknownStrategyKind = errors.New("unknown strategy kind")

// ParseStrategyKind parses the string representation of a [StrategyKind].
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch kind := StrategyKind(s); kind {
	case StrategyExhaustive, StrategyEpsilonAdaptive,
		StrategyRandomShared, StrategyEpsilonSharedAdaptive:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategyKind, s)
	}
}

// IsShared returns whether the strategy dispatches targets under a
// budget shared by all the agents.
func (k StrategyKind) IsShared() bool {
	return k == StrategyRandomShared || k == StrategyEpsilonSharedAdaptive
}

// IsAdaptive returns whether the strategy uses epsilon and the
// discoveries of the previous cycle.
func (k StrategyKind) IsAdaptive() bool {
	return k == StrategyEpsilonAdaptive || k == StrategyEpsilonSharedAdaptive
}

// BudgetFunc returns the total budget and the maximum number of
// probing rounds for the given zero-based cycle index.
type BudgetFunc func(cycle int) (totalBudget int, maxRounds int)

// ConstantBudget returns a [BudgetFunc] ignoring the cycle index.
func ConstantBudget(totalBudget, maxRounds int) BudgetFunc {
	return func(int) (int, int) {
		return totalBudget, maxRounds
	}
}

// Arm is one independently configured experimental variant of
// the campaign. An Arm is immutable once constructed.
type Arm struct {
	// Name is the arm name. We also use it to tag the jobs we submit
	// to the platform and to name the arm's ledger.
	Name string

	// Tool is the probing tool (e.g., "diamond-miner", "yarrp").
	Tool string

	// Protocol is the probing protocol (e.g., "icmp").
	Protocol string

	// MinTTL is the minimum hop limit.
	MinTTL int

	// MaxTTL is the maximum hop limit.
	MaxTTL int

	// Budget computes the budget of each cycle.
	Budget BudgetFunc

	// BGPAwareness restricts the candidates to the authorized universe.
	BGPAwareness bool

	// ExploitationOnly disables exploration entirely.
	ExploitationOnly bool

	// Strategy is the selection strategy kind.
	Strategy StrategyKind

	// Epsilon is the exploration weight (adaptive kinds only).
	Epsilon float64

	// InitialJobID is the OPTIONAL job to use as the prior job
	// of the first cycle, to resume a previous campaign.
	InitialJobID JobID
}

// String implements fmt.Stringer.
func (a *Arm) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Strategy)
}
