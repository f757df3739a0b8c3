// Package taskwarrior holds the Taskwarrior import format: the task record,
// its compact UTC time encoding and a JSON-lines encoder.
package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

const (
	PriorityHigh   = "H"
	PriorityMedium = "M"
	PriorityLow    = "L"
)

const TimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, always UTC

// Time is an instant rendered in TimeLayout.
type Time struct {
	time.Time
}

// NewTime wraps t, or returns nil when t is nil.
func NewTime(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	return &Time{Time: *t}
}

func (t Time) String() string {
	return t.UTC().Format(TimeLayout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	t.Time = parsed
	return nil
}

type Annotation struct {
	Entry       *Time  `json:"entry"`
	Description string `json:"description"`
}

// Record is one task in Taskwarrior import format. Optional fields are
// omitted from the JSON object when unset.
type Record struct {
	Status      string       `json:"status"`
	Wait        string       `json:"wait,omitempty"`
	UUID        string       `json:"uuid"`
	Entry       *Time        `json:"entry,omitempty"`
	Description string       `json:"description"`
	Project     string       `json:"project,omitempty"`
	Modified    *Time        `json:"modified,omitempty"`
	Start       *Time        `json:"start,omitempty"`
	Stop        *Time        `json:"stop,omitempty"`
	Due         *Time        `json:"due,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}
