// Package templates renders the HTML pages.
package templates

import (
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/tracker"
)

// HomeMetrics is everything the landing page shows.
type HomeMetrics struct {
	Notices   []model.Notice
	Upcoming  []model.Schedule
	Counts    map[tracker.Status]int
	Cleaning  *model.CleaningGroup
	NextClean *model.CleaningGroup
}

// TerritoryRow is one line of the territory table.
type TerritoryRow struct {
	ID            string
	Number        string
	Name          string
	Category      string
	Status        tracker.Status
	AssigneeName  string
	DueDate       string
	LastCompleted string
	Address       string
}

// TerritoryFilter echoes the active filter back into the form.
type TerritoryFilter struct {
	Status   string
	Category string
	Query    string
}
