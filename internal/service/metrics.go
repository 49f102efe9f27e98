package service

import (
	"context"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/jjenkins/fieldservice/internal/tracker"
)

// StatsService calculates dashboard counts across collections
type StatsService struct {
	base
}

// Summary represents calculated dashboard counts
type Summary struct {
	TotalTerritories   int                    `json:"totalTerritories"`
	TerritoriesBy      map[tracker.Status]int `json:"territoriesByStatus"`
	TerritoriesByGroup map[string]int         `json:"territoriesByCategory"`
	Overdue            int                    `json:"overdue"`
	TotalAreas         int                    `json:"totalAreas"`
	AreasBy            map[tracker.Status]int `json:"areasByStatus"`
	Publishers         int                    `json:"publishers"`
	Captains           int                    `json:"captains"`
	UpcomingSchedules  int                    `json:"upcomingSchedules"`
	CurrentNotices     int                    `json:"currentNotices"`
	CleaningGroups     int                    `json:"cleaningGroups"`
	Collections        []store.KeyInfo        `json:"collections"`
}

// Calculate computes the summary from the stored collections
func (m *StatsService) Calculate(ctx context.Context) (*Summary, error) {
	sum := &Summary{
		TerritoriesBy:      make(map[tracker.Status]int, len(tracker.All)),
		TerritoriesByGroup: make(map[string]int),
		AreasBy:            make(map[tracker.Status]int, len(tracker.All)),
	}
	for _, st := range tracker.All {
		sum.TerritoriesBy[st] = 0
		sum.AreasBy[st] = 0
	}
	today := m.today()

	territories, err := m.territories.Load(ctx)
	if err != nil {
		return nil, err
	}
	sum.TotalTerritories = len(territories)
	for _, t := range territories {
		sum.TerritoriesBy[t.Status]++
		if t.Category != "" {
			sum.TerritoriesByGroup[t.Category]++
		}
		if t.Status == tracker.InProgress && t.DueDate != "" && dates.Compare(t.DueDate, today) < 0 {
			sum.Overdue++
		}
	}

	areas, err := m.areas.Load(ctx)
	if err != nil {
		return nil, err
	}
	sum.TotalAreas = len(areas)
	for _, a := range areas {
		sum.AreasBy[a.Status]++
	}

	pubs, err := m.publishers.Load(ctx)
	if err != nil {
		return nil, err
	}
	sum.Publishers = len(pubs)
	for _, p := range pubs {
		if p.IsCaptain {
			sum.Captains++
		}
	}

	schedules, err := m.schedules.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, sc := range schedules {
		if dates.Compare(sc.Date, today) >= 0 {
			sum.UpcomingSchedules++
		}
	}

	notices, err := m.notices.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range notices {
		if isCurrent(n, today) {
			sum.CurrentNotices++
		}
	}

	groups, err := m.cleaning.Load(ctx)
	if err != nil {
		return nil, err
	}
	sum.CleaningGroups = len(groups)

	sum.Collections, err = m.store.Inventory(ctx)
	if err != nil {
		return nil, err
	}

	return sum, nil
}
