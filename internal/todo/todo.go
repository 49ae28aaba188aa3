// Package todo defines the core domain model and the Store that owns it.
// The KV interface allows swapping storage backends (SQLite, JSON files, in-memory)
// without changing any other layer: the desktop app, the web API and the CLI
// all talk to a *Store, never to a concrete backend.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority levels for a task.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParsePriority maps a priority name to its level. The empty string means Medium,
// matching the add form's preselected value.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium", "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, &ValidationError{Fields: []string{"priority"}, Reason: fmt.Sprintf("unknown priority %q", s)}
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is lenient: persisted records with an unknown priority load as Low.
func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil || len(b) == 0 {
		parsed = PriorityLow
	}
	*p = parsed
	return nil
}

// Task is the central domain object.
type Task struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
}

// KV is the durable storage contract. The whole collection lives under a single
// key and is overwritten wholesale on every mutation.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Close() error
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidTask is the sentinel behind every *ValidationError.
var ErrInvalidTask = errors.New("invalid task")

// ValidationError reports a rejected add or reschedule. No mutation has happened.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid task: %s", e.Reason)
	}
	return fmt.Sprintf("invalid task: missing %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTask }

// Warning is the message shown to the user.
func (e *ValidationError) Warning() string {
	if e.Reason != "" {
		return strings.ToUpper(e.Reason[:1]) + e.Reason[1:] + "!"
	}
	return "Please enter description, date, and time!"
}

// DefaultSchedule returns the form's default date and time for now.
func DefaultSchedule(now time.Time) (date, clock string) {
	return now.Format(DateLayout), now.Format(TimeLayout)
}

func validateNew(description, date, clock string) error {
	var missing []string
	if description == "" {
		missing = append(missing, "description")
	}
	if date == "" {
		missing = append(missing, "date")
	}
	if clock == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if err := validateDate(date); err != nil {
		return err
	}
	if _, err := time.Parse(TimeLayout, clock); err != nil || len(clock) != len(TimeLayout) {
		return &ValidationError{Fields: []string{"time"}, Reason: fmt.Sprintf("time %q is not HH:MM", clock)}
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil || len(date) != len(DateLayout) {
		return &ValidationError{Fields: []string{"date"}, Reason: fmt.Sprintf("date %q is not YYYY-MM-DD", date)}
	}
	return nil
}
