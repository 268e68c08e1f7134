package cycle

// State is the state of a [*Scheduler].
type State int

const (
	// StateBuildingStrategy means the next call to Next builds a strategy.
	StateBuildingStrategy = State(iota)

	// StateSubmitting means we are submitting the job.
	StateSubmitting

	// StatePersisted means we have persisted the cycle artifacts.
	StatePersisted

	// StateAwaitingPriorCompletion means we're waiting for PriorFinished.
	StateAwaitingPriorCompletion

	// StateDone means we have yielded all the cycles.
	StateDone

	// StateFailed means a cycle failed and we cannot continue.
	StateFailed
)

var stateNames = map[State]string{
	StateBuildingStrategy:        "building_strategy",
	StateSubmitting:              "submitting",
	StatePersisted:               "persisted",
	StateAwaitingPriorCompletion: "awaiting_prior_completion",
	StateDone:                    "done",
	StateFailed:                  "failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, found := stateNames[s]; found {
		return name
	}
	return "unknown"
}
