package recurrence

import (
	"testing"

	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurring(date, end string) model.Schedule {
	return model.Schedule{
		ID:              "base",
		Date:            date,
		EndDate:         end,
		Time:            "10:00",
		Location:        "Plaza",
		Category:        model.ScheduleCart,
		MaxParticipants: 4,
		Participants:    []model.Participant{{Name: "Ana"}},
		IsRecurring:     true,
	}
}

func TestExpand_FourWeeksGivesFiveInstances(t *testing.T) {
	out := Expand(recurring("2024-01-01", "2024-01-29"))

	require.Len(t, out, 5)
	want := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}
	for i, s := range out {
		assert.Equal(t, want[i], s.Date)
		assert.Equal(t, InstanceID("base", i), s.ID)
		assert.Equal(t, "Plaza", s.Location)
	}
	assert.Equal(t, 5, Count("2024-01-01", "2024-01-29"))
}

func TestExpand_OnlyFirstInstanceIsRecurring(t *testing.T) {
	for _, end := range []string{"2024-01-01", "2024-01-10", "2024-03-31"} {
		out := Expand(recurring("2024-01-01", end))
		require.NotEmpty(t, out)

		assert.True(t, out[0].IsRecurring, end)
		for _, s := range out[1:] {
			assert.False(t, s.IsRecurring, end)
		}
	}
}

func TestExpand_EndBeforeStartGivesNothing(t *testing.T) {
	out := Expand(recurring("2024-01-10", "2024-01-09"))

	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Equal(t, 0, Count("2024-01-10", "2024-01-09"))
}

func TestExpand_UnparseableBoundsReturnBase(t *testing.T) {
	base := recurring("2024-01-10", "someday")

	out := Expand(base)

	require.Len(t, out, 1)
	assert.Equal(t, "base", out[0].ID)
	assert.Equal(t, "2024-01-10", out[0].Date)
	assert.Equal(t, -1, Count("2024-01-10", "someday"))
}

func TestExpand_NonRecurringReturnsBase(t *testing.T) {
	base := recurring("2024-01-10", "2024-02-10")
	base.IsRecurring = false

	out := Expand(base)

	require.Len(t, out, 1)
	assert.Equal(t, "base", out[0].ID)
}

func TestExpand_InstancesDoNotShareParticipants(t *testing.T) {
	out := Expand(recurring("2024-01-01", "2024-01-08"))
	require.Len(t, out, 2)

	out[0].Participants[0].Name = "Eva"

	assert.Equal(t, "Ana", out[1].Participants[0].Name)
}

func TestExpand_AcrossDSTBoundary(t *testing.T) {
	out := Expand(recurring("2024-03-04", "2024-03-25"))

	require.Len(t, out, 4)
	assert.Equal(t, "2024-03-11", out[1].Date)
	assert.Equal(t, "2024-03-25", out[3].Date)
}
