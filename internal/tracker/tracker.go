// Package tracker maintains a current status label plus an append-only log of
// status transitions for territories and area documents.
package tracker

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/jjenkins/fieldservice/internal/dates"
)

// HistoryEntry is one recorded transition.
type HistoryEntry struct {
	Date       string `json:"date"`
	Status     Status `json:"status"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// History is the transition log in insertion order. Insertion order is not
// guaranteed to be chronological.
type History []HistoryEntry

// MarshalJSON always emits an array, never null.
func (h History) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]HistoryEntry(h))
}

// Tracking is embedded by every entity that carries a status lifecycle.
type Tracking struct {
	Status         Status  `json:"status"`
	History        History `json:"history"`
	LastWorkedDate string  `json:"lastWorkedDate,omitempty"`
}

// New returns the tracking state of a freshly created entity.
func New() Tracking {
	return Tracking{Status: NotStarted, History: History{}}
}

// Apply records a transition to status at the given instant. The receiver is
// not modified; the updated state is returned.
func (t Tracking) Apply(status Status, at time.Time) (Tracking, error) {
	return t.ApplyWith(status, at, "")
}

// ApplyWith is Apply with an assignee recorded on the new history entry.
func (t Tracking) ApplyWith(status Status, at time.Time, assignedTo string) (Tracking, error) {
	if !status.Valid() {
		return t, fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}

	entry := HistoryEntry{
		Date:       dates.Format(at),
		Status:     status,
		Timestamp:  at.UnixMilli(),
		AssignedTo: assignedTo,
	}

	history := make(History, 0, len(t.History)+1)
	history = append(history, t.History...)
	if !history.Contains(entry.Date, entry.Status) {
		history = append(history, entry)
	}

	next := Tracking{
		Status:         status,
		History:        history,
		LastWorkedDate: t.LastWorkedDate,
	}
	if status == Completed {
		next.LastWorkedDate = entry.Date
	}
	return next, nil
}

// Contains reports whether an entry for (date, status) already exists.
func (h History) Contains(date string, status Status) bool {
	for _, e := range h {
		if e.Date == date && e.Status == status {
			return true
		}
	}
	return false
}

// compareRecency orders entries most recent first: by calendar date, then by
// timestamp within the same day. A missing timestamp sorts as the earliest
// moment of its day.
func compareRecency(a, b HistoryEntry) int {
	if c := dates.Compare(b.Date, a.Date); c != 0 {
		return c
	}
	return cmp.Compare(b.Timestamp, a.Timestamp)
}

// MostRecent returns the latest entry with the given status.
func MostRecent(h History, status Status) (HistoryEntry, bool) {
	var matches []HistoryEntry
	for _, e := range h {
		if e.Status == status {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return HistoryEntry{}, false
	}
	slices.SortStableFunc(matches, compareRecency)
	return matches[0], true
}

// Chronological returns a copy of h sorted oldest first.
func Chronological(h History) History {
	out := slices.Clone(h)
	slices.SortStableFunc(out, func(a, b HistoryEntry) int {
		return compareRecency(b, a)
	})
	return out
}

type rawEntry struct {
	Date       string          `json:"date"`
	Status     json.RawMessage `json:"status"`
	Timestamp  json.Number     `json:"timestamp"`
	AssignedTo string          `json:"assignedTo"`
}

// DecodeHistory decodes a persisted history value. Anything that is not an
// array yields an empty history; entries with an unparseable date or an
// unknown status are dropped. Every repair is described in the returned
// warnings.
func DecodeHistory(raw json.RawMessage) (History, []string) {
	if len(raw) == 0 || string(raw) == "null" {
		return History{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return History{}, []string{"history is not an array; reset to empty"}
	}

	var warnings []string
	history := make(History, 0, len(items))
	for i, item := range items {
		var re rawEntry
		if err := json.Unmarshal(item, &re); err != nil {
			warnings = append(warnings, fmt.Sprintf("history[%d] dropped: %v", i, err))
			continue
		}
		d := dates.Parse(re.Date)
		if !d.Valid() {
			warnings = append(warnings, fmt.Sprintf("history[%d] dropped: invalid date %q", i, re.Date))
			continue
		}
		var st Status
		if err := json.Unmarshal(re.Status, &st); err != nil {
			warnings = append(warnings, fmt.Sprintf("history[%d] dropped: %v", i, err))
			continue
		}
		entry := HistoryEntry{Date: d.String(), Status: st, AssignedTo: re.AssignedTo}
		if re.Timestamp != "" {
			if f, err := re.Timestamp.Float64(); err == nil {
				entry.Timestamp = int64(f)
			}
		}
		history = append(history, entry)
	}
	return history, warnings
}

// Decode rebuilds a Tracking value from its persisted fields.
func Decode(status, history json.RawMessage, lastWorked string) (Tracking, []string) {
	st, w1 := DecodeStatus(status)
	h, w2 := DecodeHistory(history)
	t := Tracking{Status: st, History: h}
	if lastWorked != "" {
		t.LastWorkedDate = dates.Normalize(lastWorked)
	}
	return t, append(w1, w2...)
}
