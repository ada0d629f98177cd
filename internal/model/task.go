package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("model: invalid input")
	ErrDuplicateName = errors.New("model: list name already exists")
	ErrLastList      = errors.New("model: cannot delete the last list")
	ErrInvalidOrder  = errors.New("model: list order must be a permutation of existing lists")
	ErrNotFound      = errors.New("model: not found")
)

// MaxDurationSeconds caps a task at 999 hours.
const MaxDurationSeconds = 999 * 3600

type TimeUnit string

const (
	UnitSeconds TimeUnit = "seconds"
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
)

func (u TimeUnit) IsValid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours:
		return true
	default:
		return false
	}
}

// ParseTimeUnit accepts the long unit names and their one-letter forms.
func ParseTimeUnit(raw string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "s", "sec", "secs", "second", "seconds":
		return UnitSeconds, nil
	case "m", "min", "mins", "minute", "minutes":
		return UnitMinutes, nil
	case "h", "hr", "hrs", "hour", "hours":
		return UnitHours, nil
	default:
		return "", fmt.Errorf("%w: unknown time unit %q", ErrValidation, raw)
	}
}

// MaxAmount is the largest amount of u that fits in MaxDurationSeconds.
func (u TimeUnit) MaxAmount() int {
	return MaxDurationSeconds / u.Seconds(1)
}

func (u TimeUnit) Seconds(amount int) int {
	switch u {
	case UnitMinutes:
		return amount * 60
	case UnitHours:
		return amount * 3600
	default:
		return amount
	}
}

type Task struct {
	Name             string
	DurationSeconds  int
	RemainingSeconds int
	Enabled          bool
}

// NewTask returns an enabled task with its full duration remaining.
func NewTask(name string, durationSeconds int) (Task, error) {
	t := Task{
		Name:             strings.TrimSpace(name),
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		Enabled:          true,
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: task name is required", ErrValidation)
	}
	if t.DurationSeconds <= 0 {
		return fmt.Errorf("%w: task duration must be positive, got %d", ErrValidation, t.DurationSeconds)
	}
	if t.DurationSeconds > MaxDurationSeconds {
		return fmt.Errorf("%w: task duration %d exceeds %d seconds", ErrValidation, t.DurationSeconds, MaxDurationSeconds)
	}
	if t.RemainingSeconds < 0 || t.RemainingSeconds > t.DurationSeconds {
		return fmt.Errorf("%w: remaining %d outside [0, %d]", ErrValidation, t.RemainingSeconds, t.DurationSeconds)
	}
	return nil
}

func (t *Task) Reset() {
	t.RemainingSeconds = t.DurationSeconds
}

// Elapsed is the fraction of the task already counted down, in [0, 1].
func (t Task) Elapsed() float64 {
	if t.DurationSeconds <= 0 {
		return 0
	}
	f := float64(t.DurationSeconds-t.RemainingSeconds) / float64(t.DurationSeconds)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
