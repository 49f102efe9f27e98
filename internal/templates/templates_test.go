package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeEscapesContent(t *testing.T) {
	var buf bytes.Buffer
	err := Home(HomeMetrics{
		Notices: []model.Notice{{Title: "<script>x</script>", Content: "a & b", Importance: model.ImportanceHigh}},
		Counts:  map[tracker.Status]int{tracker.Completed: 4},
	}).Render(context.Background(), &buf)

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>x")
	assert.Contains(t, html, "a &amp; b")
	assert.Contains(t, html, `<span class="value">4</span>`)
	assert.Contains(t, html, `class="notice importance-high"`)
	assert.Contains(t, html, "<!doctype html>")
}

func TestHomeEscapesClassAttributes(t *testing.T) {
	var buf bytes.Buffer
	err := Home(HomeMetrics{
		Notices:  []model.Notice{{Title: "t", Importance: model.Importance(`x"><script>alert(1)</script>`)}},
		Upcoming: []model.Schedule{{Date: "2024-03-20", Category: model.ScheduleCategory(`y"><img src=x onerror=alert(2)>`)}},
	}).Render(context.Background(), &buf)

	require.NoError(t, err)
	html := buf.String()
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, `x">`)
}

func TestTerritoryRows(t *testing.T) {
	var buf bytes.Buffer
	err := TerritoryRows([]TerritoryRow{
		{Number: "7", Status: tracker.InProgress, AssigneeName: "Ana", LastCompleted: "2024-01-02"},
	}).Render(context.Background(), &buf)

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, `id="territory-rows"`)
	assert.Contains(t, html, `class="status-in_progress"`)
	assert.Contains(t, html, "In progress")
	assert.Contains(t, html, "badge-last")
	assert.NotContains(t, html, "<!doctype html>")
}

func TestTerritoriesSelectsFilter(t *testing.T) {
	var buf bytes.Buffer
	err := Territories(nil, TerritoryFilter{Status: "completed", Query: `"q"`}).Render(context.Background(), &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<option value="completed" selected>`)
	assert.Contains(t, buf.String(), `value="&#34;q&#34;"`)
	assert.Contains(t, buf.String(), "Sin territorios")
}
