package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Status is the canonical three-state lifecycle label.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// ErrInvalidStatus is returned when a status outside the canonical set is
// requested.
var ErrInvalidStatus = errors.New("invalid status")

// All lists the canonical statuses in lifecycle order.
var All = []Status{NotStarted, InProgress, Completed}

// aliases maps every vocabulary found in stored data onto the canonical enum.
var aliases = map[string]Status{
	"not_started": NotStarted,
	"notstarted":  NotStarted,
	"inicio":      NotStarted,
	"available":   NotStarted,
	"pending":     NotStarted,
	"시작전":         NotStarted,

	"in_progress": InProgress,
	"inprogress":  InProgress,
	"proceso":     InProgress,
	"assigned":    InProgress,
	"진행중":         InProgress,

	"completed":  Completed,
	"completado": Completed,
	"완성":         Completed,
}

// ParseStatus resolves s, which may be a canonical value or any known alias.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := aliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the canonical values.
func (s Status) Valid() bool {
	switch s {
	case NotStarted, InProgress, Completed:
		return true
	}
	return false
}

// Label is a short human-readable name.
func (s Status) Label() string {
	switch s {
	case NotStarted:
		return "Not started"
	case InProgress:
		return "In progress"
	case Completed:
		return "Completed"
	}
	return "Unknown"
}

// UnmarshalJSON accepts canonical values and aliases.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, string(b))
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// DecodeStatus decodes a persisted status value. Missing or unknown values
// fall back to NotStarted and are reported as warnings.
func DecodeStatus(raw json.RawMessage) (Status, []string) {
	if len(raw) == 0 || string(raw) == "null" {
		return NotStarted, nil
	}
	var st Status
	if err := json.Unmarshal(raw, &st); err != nil {
		return NotStarted, []string{fmt.Sprintf("status %s replaced with %s: %v", string(raw), NotStarted, err)}
	}
	return st, nil
}
