package service

import (
	"context"
	"time"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
)

const monthLayout = "2006-01"

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date     string                         `json:"date"`
	Day      int                            `json:"day"`
	InMonth  bool                           `json:"inMonth"`
	Today    bool                           `json:"today"`
	Selected bool                           `json:"selected"`
	Counts   map[model.ScheduleCategory]int `json:"counts"`
	Total    int                            `json:"total"`
}

// Calendar is a Sunday-first month grid with per-day schedule counts and the
// schedules of the selected day.
type Calendar struct {
	Month     string           `json:"month"`
	Prev      string           `json:"prev"`
	Next      string           `json:"next"`
	Weeks     [][]CalendarDay  `json:"weeks"`
	Selected  string           `json:"selected"`
	Schedules []model.Schedule `json:"schedules"`
}

// Calendar builds the grid for month (yyyy-MM, default: the current month).
// The grid has five weeks, or six when the month does not fit in five.
// selected defaults to today.
func (s *ScheduleService) Calendar(ctx context.Context, month, selected string) (Calendar, error) {
	today := dates.Day(s.clock())

	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month != "" {
		m, err := time.Parse(monthLayout, month)
		if err != nil {
			return Calendar{}, &ValidationError{Fields: []FieldError{{"month", "must be yyyy-MM"}}}
		}
		first = m
	}

	sel := today
	if selected != "" {
		r := dates.Parse(selected)
		if !r.Valid() {
			return Calendar{}, &ValidationError{Fields: []FieldError{{"selected", "must be a date (yyyy-MM-dd)"}}}
		}
		sel = r.Time
	}

	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	weeks := 5
	if start.AddDate(0, 0, 7*weeks-1).Before(last) {
		weeks = 6
	}
	end := start.AddDate(0, 0, 7*weeks-1)

	items, err := s.List(ctx, ScheduleFilter{From: dates.Format(start), To: dates.Format(end)})
	if err != nil {
		return Calendar{}, err
	}
	byDay := make(map[string][]model.Schedule)
	for _, sc := range items {
		d := dates.Normalize(sc.Date)
		byDay[d] = append(byDay[d], sc)
	}

	cal := Calendar{
		Month:     first.Format(monthLayout),
		Prev:      first.AddDate(0, -1, 0).Format(monthLayout),
		Next:      first.AddDate(0, 1, 0).Format(monthLayout),
		Weeks:     make([][]CalendarDay, weeks),
		Selected:  dates.Format(sel),
		Schedules: byDay[dates.Format(sel)],
	}
	if cal.Schedules == nil {
		cal.Schedules = []model.Schedule{}
	}

	for w := range weeks {
		row := make([]CalendarDay, 7)
		for d := range 7 {
			day := start.AddDate(0, 0, w*7+d)
			key := dates.Format(day)
			cell := CalendarDay{
				Date:     key,
				Day:      day.Day(),
				InMonth:  day.Month() == first.Month(),
				Today:    day.Equal(today),
				Selected: day.Equal(sel),
				Counts:   make(map[model.ScheduleCategory]int),
			}
			for _, sc := range byDay[key] {
				cell.Counts[sc.Category]++
				cell.Total++
			}
			row[d] = cell
		}
		cal.Weeks[w] = row
	}
	return cal, nil
}
