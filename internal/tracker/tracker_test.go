package tracker

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)

func TestApply_AppendsEntryAndSetsStatus(t *testing.T) {
	next, err := New().Apply(InProgress, at)

	require.NoError(t, err)
	assert.Equal(t, InProgress, next.Status)
	require.Len(t, next.History, 1)
	assert.Equal(t, HistoryEntry{Date: "2024-06-03", Status: InProgress, Timestamp: at.UnixMilli()}, next.History[0])
	assert.Empty(t, next.LastWorkedDate)
}

func TestApply_IsIdempotentPerDateAndStatus(t *testing.T) {
	for _, st := range All {
		first, err := New().Apply(st, at)
		require.NoError(t, err)

		second, err := first.Apply(st, at.Add(2*time.Hour))
		require.NoError(t, err)

		assert.Len(t, second.History, len(first.History), st)
	}
}

func TestApply_SameStatusOnAnotherDayAppends(t *testing.T) {
	first, err := New().Apply(Completed, at)
	require.NoError(t, err)

	second, err := first.Apply(Completed, at.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Len(t, second.History, 2)
	assert.Equal(t, "2024-06-04", second.LastWorkedDate)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	base := Tracking{
		Status:  InProgress,
		History: make(History, 1, 8),
	}
	base.History[0] = HistoryEntry{Date: "2024-06-01", Status: InProgress, Timestamp: 1}

	next, err := base.Apply(Completed, at)
	require.NoError(t, err)

	assert.Equal(t, InProgress, base.Status)
	assert.Len(t, base.History, 1)
	assert.Len(t, next.History, 2)

	next.History[0].Date = "changed"
	assert.Equal(t, "2024-06-01", base.History[0].Date)
}

func TestApply_CompletedStampsLastWorkedDate(t *testing.T) {
	next, err := New().Apply(Completed, at)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", next.LastWorkedDate)

	again, err := next.Apply(NotStarted, at.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", again.LastWorkedDate)
}

func TestApply_RejectsInvalidStatus(t *testing.T) {
	base := New()
	next, err := base.Apply(Status("proceso"), at)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStatus))
	assert.Equal(t, base, next)
}

func TestApply_UsesLocalCalendarDate(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	late := time.Date(2024, 6, 3, 23, 30, 0, 0, loc)

	next, err := New().Apply(InProgress, late)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", next.History[0].Date)
}

func TestMostRecent_UsesTimestamp(t *testing.T) {
	h, warnings := DecodeHistory(json.RawMessage(`[
		{"date":"2024-01-01","status":"completado","timestamp":100},
		{"date":"2024-01-05","status":"completado","timestamp":500}
	]`))
	require.Empty(t, warnings)

	entry, ok := MostRecent(h, Completed)

	require.True(t, ok)
	assert.Equal(t, int64(500), entry.Timestamp)
	assert.Equal(t, "2024-01-05", entry.Date)
}

func TestMostRecent_FallsBackToDate(t *testing.T) {
	h := History{
		{Date: "2024-03-10", Status: InProgress},
		{Date: "2024-04-01", Status: InProgress},
		{Date: "2024-02-01", Status: InProgress, Timestamp: 900},
		{Date: "2024-05-01", Status: Completed},
	}

	entry, ok := MostRecent(h, InProgress)

	require.True(t, ok)
	assert.Equal(t, "2024-04-01", entry.Date)

	_, ok = MostRecent(h, NotStarted)
	assert.False(t, ok)
}

func TestMostRecent_MixedTimestampsIsOrderIndependent(t *testing.T) {
	entries := History{
		{Date: "2024-03-01", Status: Completed, Timestamp: 900},
		{Date: "2024-03-05", Status: Completed},
		{Date: "2024-03-05", Status: Completed, Timestamp: 100, AssignedTo: "late"},
		{Date: "2024-03-03", Status: Completed, Timestamp: 50},
	}

	for shift := range entries {
		h := append(slices.Clone(entries[shift:]), entries[:shift]...)
		entry, ok := MostRecent(h, Completed)

		require.True(t, ok)
		assert.Equal(t, "2024-03-05", entry.Date, "rotation %d", shift)
		assert.Equal(t, "late", entry.AssignedTo, "rotation %d", shift)
	}
}

func TestChronological(t *testing.T) {
	h := History{
		{Date: "2024-03-10", Status: InProgress, Timestamp: 300},
		{Date: "2024-01-10", Status: NotStarted, Timestamp: 100},
	}

	sorted := Chronological(h)

	assert.Equal(t, "2024-01-10", sorted[0].Date)
	assert.Equal(t, "2024-03-10", h[0].Date)
}

func TestDecodeHistory_NotAnArray(t *testing.T) {
	h, warnings := DecodeHistory(json.RawMessage(`"not-an-array"`))

	assert.Empty(t, h)
	assert.NotNil(t, h)
	assert.Len(t, warnings, 1)

	next, err := Tracking{Status: InProgress, History: h}.Apply(Completed, at)
	require.NoError(t, err)
	assert.Len(t, next.History, 1)
}

func TestDecodeHistory_DropsInvalidEntries(t *testing.T) {
	h, warnings := DecodeHistory(json.RawMessage(`[
		{"date":"2024-01-01","status":"inicio","timestamp":1},
		{"date":"yesterday","status":"proceso"},
		{"date":"2024-01-03","status":"archived"},
		42,
		{"date":"2024-01-04T10:00:00.000Z","status":"assigned","assignedTo":"pub-1"}
	]`))

	require.Len(t, h, 2)
	assert.Len(t, warnings, 3)
	assert.Equal(t, NotStarted, h[0].Status)
	assert.Equal(t, HistoryEntry{Date: "2024-01-04", Status: InProgress, AssignedTo: "pub-1"}, h[1])
}

func TestHistory_MarshalsNilAsArray(t *testing.T) {
	b, err := json.Marshal(Tracking{Status: NotStarted})

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"not_started","history":[]}`, string(b))
}

func TestParseStatus_Aliases(t *testing.T) {
	cases := map[string]Status{
		"inicio":      NotStarted,
		"available":   NotStarted,
		"시작전":         NotStarted,
		"Proceso":     InProgress,
		"assigned":    InProgress,
		"진행중":         InProgress,
		" completado": Completed,
		"completed":   Completed,
		"완성":          Completed,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDecodeStatus_UnknownFallsBack(t *testing.T) {
	st, warnings := DecodeStatus(json.RawMessage(`"archived"`))
	assert.Equal(t, NotStarted, st)
	assert.Len(t, warnings, 1)

	st, warnings = DecodeStatus(nil)
	assert.Equal(t, NotStarted, st)
	assert.Empty(t, warnings)
}
