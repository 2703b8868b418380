package model

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Transitions lists, for every status, the statuses it may move to.
// A status mapped to an empty slice is terminal.
type Transitions[S ~string] map[S][]S

// Allows reports whether from -> to is listed.
func (t Transitions[S]) Allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Known reports whether s appears as a key.
func (t Transitions[S]) Known(s S) bool {
	_, ok := t[s]
	return ok
}

// Move returns to when the transition is allowed, or from and an error
// wrapping ErrInvalidTransition.
func (t Transitions[S]) Move(from, to S) (S, error) {
	if !t.Allows(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// Lifecycle is the status sequence shared by events, exams and trips:
// PLANNED -> SCHEDULED -> IN_PROGRESS -> COMPLETED, with CANCELLED
// reachable before work starts.
type Lifecycle string

const (
	LifecyclePlanned    Lifecycle = "PLANNED"
	LifecycleScheduled  Lifecycle = "SCHEDULED"
	LifecycleInProgress Lifecycle = "IN_PROGRESS"
	LifecycleCompleted  Lifecycle = "COMPLETED"
	LifecycleCancelled  Lifecycle = "CANCELLED"
)

// LifecycleTransitions defines the allowed Lifecycle moves.
// SCHEDULED -> PLANNED puts an item back into planning.
var LifecycleTransitions = Transitions[Lifecycle]{
	LifecyclePlanned:    {LifecycleScheduled, LifecycleCancelled},
	LifecycleScheduled:  {LifecycleInProgress, LifecycleCancelled, LifecyclePlanned},
	LifecycleInProgress: {LifecycleCompleted},
	LifecycleCompleted:  {},
	LifecycleCancelled:  {},
}

var lifecycleSequence = []Lifecycle{
	LifecyclePlanned,
	LifecycleScheduled,
	LifecycleInProgress,
	LifecycleCompleted,
}

// ParseLifecycle validates a raw status string.
func ParseLifecycle(raw string) (Lifecycle, error) {
	s := Lifecycle(raw)
	if !LifecycleTransitions.Known(s) {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

func (s Lifecycle) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s Lifecycle) IsTerminal() bool {
	return s == LifecycleCompleted || s == LifecycleCancelled
}

// IsEditable reports whether details may still change.
func (s Lifecycle) IsEditable() bool {
	return s == LifecyclePlanned || s == LifecycleScheduled
}

// CanTransitionTo checks whether s -> target is allowed.
func (s Lifecycle) CanTransitionTo(target Lifecycle) bool {
	return LifecycleTransitions.Allows(s, target)
}

// TransitionTo returns target or an error wrapping ErrInvalidTransition.
func (s Lifecycle) TransitionTo(target Lifecycle) (Lifecycle, error) {
	return LifecycleTransitions.Move(s, target)
}

// Next returns the following step of the fixed sequence.
// Terminal statuses have no next step.
func (s Lifecycle) Next() (Lifecycle, bool) {
	i := slices.Index(lifecycleSequence, s)
	if i < 0 || i == len(lifecycleSequence)-1 {
		return "", false
	}
	return lifecycleSequence[i+1], true
}
