package domain

import (
	"fmt"
	"strings"
)

// Priority is the priority hint the scenario generator attaches to a scenario.
type Priority string

// Valid priority hints
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// NewPriority creates a Priority from a case-insensitive value
func NewPriority(value string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(value)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate checks if the priority is valid
func (p Priority) Validate() error {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return fmt.Errorf("invalid priority %q: must be critical, high, medium, or low", string(p))
	}
}

// String returns the string representation
func (p Priority) String() string {
	return string(p)
}

// IsUrgent reports whether the hint is high or critical.
func (p Priority) IsUrgent() bool {
	return p == PriorityCritical || p == PriorityHigh
}

// IsHigherThan checks if this priority is higher than another
func (p Priority) IsHigherThan(other Priority) bool {
	return priorityRank(p) > priorityRank(other)
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
