package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/topoprobe/campaign/internal/model"
)

// Arm is the configuration of a campaign arm. The probing settings
// override the campaign-wide ones when set.
type Arm struct {
	Probing

	// Name is the arm name.
	Name string `json:"name"`

	// Strategy is the selection strategy kind.
	Strategy model.StrategyKind `json:"strategy"`

	// Epsilon is the exploration weight of adaptive kinds. When
	// missing we use [DefaultEpsilon].
	Epsilon *float64 `json:"epsilon"`

	// Budget is the budget of each cycle.
	Budget Budget `json:"budget"`

	// BGPAwareness enables BGP-aware ranking.
	BGPAwareness bool `json:"bgp_awareness"`

	// ExploitationOnly disables exploration.
	ExploitationOnly bool `json:"exploitation_only"`

	// InitialJobID OPTIONALLY resumes from a previous job.
	InitialJobID model.JobID `json:"initial_job_id"`
}

// Budget is the budget of each cycle. A cycle uses the entry of the
// schedule with the same index, or the last entry when the schedule
// is shorter than the campaign. Without a schedule, the budget is
// either Total or Fraction of the universe size.
type Budget struct {
	Total     int           `json:"total"`
	Fraction  float64       `json:"fraction"`
	MaxRounds int           `json:"max_rounds"`
	Schedule  []BudgetEntry `json:"schedule"`
}

// BudgetEntry is an entry of a [Budget] schedule.
type BudgetEntry struct {
	Total     int `json:"total"`
	MaxRounds int `json:"max_rounds"`
}

var errInvalidArm = errors.New("invalid arm")

func (a *Arm) defaults(probing *Probing) {
	if a.Tool == "" {
		a.Tool = probing.Tool
	}
	if a.Protocol == "" {
		a.Protocol = probing.Protocol
	}
	if a.MinTTL == 0 {
		a.MinTTL = probing.MinTTL
	}
	if a.MaxTTL == 0 {
		a.MaxTTL = probing.MaxTTL
	}
	if a.Epsilon == nil && a.Strategy.IsAdaptive() {
		epsilon := DefaultEpsilon
		a.Epsilon = &epsilon
	}
	if a.Budget.MaxRounds == 0 {
		a.Budget.MaxRounds = DefaultMaxRounds
	}
	for idx := range a.Budget.Schedule {
		if a.Budget.Schedule[idx].MaxRounds == 0 {
			a.Budget.Schedule[idx].MaxRounds = a.Budget.MaxRounds
		}
	}
}

func (a *Arm) validate() error {
	if a.Name == "" || a.Name == "." || a.Name == ".." || strings.ContainsAny(a.Name, `/\`) {
		return fmt.Errorf("%w: bad name %q", errInvalidArm, a.Name)
	}
	if _, err := model.ParseStrategyKind(string(a.Strategy)); err != nil {
		return err
	}
	if a.Epsilon != nil && (*a.Epsilon < 0 || *a.Epsilon > 1 || math.IsNaN(*a.Epsilon)) {
		return fmt.Errorf("%w: epsilon must be within [0, 1]", errInvalidArm)
	}
	if a.MinTTL < 1 || a.MaxTTL > 255 || a.MinTTL > a.MaxTTL {
		return fmt.Errorf("%w: bad TTL range [%d, %d]", errInvalidArm, a.MinTTL, a.MaxTTL)
	}
	if a.Budget.Total < 0 || a.Budget.Fraction < 0 || a.Budget.Fraction > 1 {
		return fmt.Errorf("%w: bad budget", errInvalidArm)
	}
	if a.Budget.Total > 0 && a.Budget.Fraction > 0 {
		return fmt.Errorf("%w: budget.total and budget.fraction are mutually exclusive", errInvalidArm)
	}
	for _, entry := range a.Budget.Schedule {
		if entry.Total < 0 || entry.MaxRounds < 0 {
			return fmt.Errorf("%w: bad budget schedule", errInvalidArm)
		}
	}
	return nil
}

// BudgetFunc returns the [model.BudgetFunc] for the given universe size.
func (b *Budget) BudgetFunc(universeSize int) model.BudgetFunc {
	if len(b.Schedule) > 0 {
		schedule := append([]BudgetEntry{}, b.Schedule...)
		return func(cycle int) (int, int) {
			entry := schedule[min(max(cycle, 0), len(schedule)-1)]
			return entry.Total, entry.MaxRounds
		}
	}
	total := b.Total
	if b.Fraction > 0 {
		total = int(math.Floor(b.Fraction * float64(universeSize)))
	}
	return model.ConstantBudget(total, b.MaxRounds)
}

// NewArms converts the configured arms to [*model.Arm] given the
// number of units in the prefix universe.
func (c *Config) NewArms(universeSize int) []*model.Arm {
	var arms []*model.Arm
	for _, a := range c.Arms {
		arm := &model.Arm{
			Name:             a.Name,
			Tool:             a.Tool,
			Protocol:         a.Protocol,
			MinTTL:           a.MinTTL,
			MaxTTL:           a.MaxTTL,
			Budget:           a.Budget.BudgetFunc(universeSize),
			BGPAwareness:     a.BGPAwareness,
			ExploitationOnly: a.ExploitationOnly,
			Strategy:         a.Strategy,
			InitialJobID:     a.InitialJobID,
		}
		if a.Epsilon != nil {
			arm.Epsilon = *a.Epsilon
		}
		arms = append(arms, arm)
	}
	return arms
}
