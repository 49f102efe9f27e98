package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/recurrence"
)

// DefaultMaxParticipants applies when a submission leaves capacity unset.
const DefaultMaxParticipants = 10

// DefaultTerritoryTime is the start time of schedules created from
// territories.
const DefaultTerritoryTime = "10:00"

// ScheduleService manages service schedules and registrations.
type ScheduleService struct {
	base
}

// ScheduleInput is a schedule submission. A recurring submission is
// expanded into weekly instances on create.
type ScheduleInput struct {
	Date              string                 `json:"date"`
	Time              string                 `json:"time"`
	Location          string                 `json:"location"`
	Category          model.ScheduleCategory `json:"category"`
	MaxParticipants   int                    `json:"maxParticipants"`
	Participants      []model.Participant    `json:"participants"`
	IsRecurring       bool                   `json:"isRecurring"`
	EndDate           string                 `json:"endDate"`
	TerritoryID       string                 `json:"territoryId"`
	AllowRegistration bool                   `json:"allowRegistration"`
}

func (in *ScheduleInput) normalize() {
	if in.Category == "" {
		in.Category = model.ScheduleHouse
	}
	if in.MaxParticipants == 0 {
		in.MaxParticipants = DefaultMaxParticipants
	}
}

func (in ScheduleInput) validate() error {
	var v validator
	if v.required("date", in.Date) {
		v.date("date", in.Date)
	}
	if v.required("time", in.Time) && !validClock(in.Time) {
		v.add("time", "must be HH:MM")
	}
	if in.TerritoryID == "" {
		v.required("location", in.Location)
	}
	if !in.Category.Valid() {
		v.add("category", "unknown category")
	}
	if in.MaxParticipants < 1 {
		v.add("maxParticipants", "must be at least 1")
	}
	if in.IsRecurring {
		if v.required("endDate", in.EndDate) {
			n := recurrence.Count(in.Date, in.EndDate)
			switch {
			case !dates.Parse(in.EndDate).Valid():
				v.add("endDate", "must be a date (yyyy-MM-dd)")
			case n == 0:
				v.add("endDate", "must not be before date")
			case n > recurrence.MaxInstances:
				v.add("endDate", fmt.Sprintf("repeats %d times, at most %d allowed", n, recurrence.MaxInstances))
			}
		}
	}
	return v.err()
}

func validClock(s string) bool {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return false
	}
	return len(s) == 5 && h >= 0 && h < 24 && m >= 0 && m < 60
}

func scheduleID(s model.Schedule) string { return s.ID }

// ScheduleFilter narrows List. Dates are inclusive; empty fields match
// everything.
type ScheduleFilter struct {
	From     string
	To       string
	Category model.ScheduleCategory
}

// List returns schedules ordered by date then time.
func (s *ScheduleService) List(ctx context.Context, f ScheduleFilter) ([]model.Schedule, error) {
	items, err := s.schedules.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Schedule, 0, len(items))
	for _, sc := range items {
		if f.From != "" && dates.Compare(sc.Date, f.From) < 0 {
			continue
		}
		if f.To != "" && dates.Compare(sc.Date, f.To) > 0 {
			continue
		}
		if f.Category != "" && sc.Category != f.Category {
			continue
		}
		out = append(out, sc)
	}
	sortSchedules(out)
	return out, nil
}

// Upcoming returns schedules dated today or later.
func (s *ScheduleService) Upcoming(ctx context.Context) ([]model.Schedule, error) {
	return s.List(ctx, ScheduleFilter{From: s.today()})
}

// Get returns one schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (model.Schedule, error) {
	items, err := s.schedules.Load(ctx)
	if err != nil {
		return model.Schedule{}, err
	}
	i := indexByID(items, id, scheduleID)
	if i < 0 {
		return model.Schedule{}, notFound("schedule", id)
	}
	return items[i], nil
}

// Create stores a submission, expanding recurring ones into weekly
// instances, and returns what was stored.
func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) ([]model.Schedule, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	tmpl := model.Schedule{
		ID:                s.newID(),
		Date:              dates.Normalize(in.Date),
		Time:              in.Time,
		Location:          in.Location,
		Category:          in.Category,
		MaxParticipants:   in.MaxParticipants,
		Participants:      slices.Clone(in.Participants),
		IsRecurring:       in.IsRecurring,
		EndDate:           dates.Normalize(in.EndDate),
		AllowRegistration: in.AllowRegistration,
	}
	if tmpl.Participants == nil {
		tmpl.Participants = []model.Participant{}
	}
	if err := s.linkTerritory(ctx, &tmpl, in.TerritoryID); err != nil {
		return nil, err
	}

	created := recurrence.Expand(tmpl)
	err := s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		items = append(items, created...)
		sortSchedules(items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ScheduleService) linkTerritory(ctx context.Context, sc *model.Schedule, tid string) error {
	if tid == "" {
		return nil
	}
	items, err := s.territories.Load(ctx)
	if err != nil {
		return err
	}
	i := indexByID(items, tid, territoryID)
	if i < 0 {
		return &ValidationError{Fields: []FieldError{{"territoryId", "unknown territory"}}}
	}
	fillFromTerritory(sc, items[i])
	return nil
}

func fillFromTerritory(sc *model.Schedule, t model.Territory) {
	sc.TerritoryID = t.ID
	sc.TerritoryNumber = t.Number
	sc.TerritoryAddress = t.Address
	if sc.Location == "" {
		sc.Location = t.Address
	}
	if sc.Location == "" {
		sc.Location = "Territory " + t.Number
	}
}

// Update edits a single stored schedule. Recurrence is not re-expanded; an
// expanded series is edited one instance at a time. Participants are kept
// when the input omits them.
func (s *ScheduleService) Update(ctx context.Context, id string, in ScheduleInput) (model.Schedule, error) {
	in.normalize()
	in.IsRecurring = false
	if err := in.validate(); err != nil {
		return model.Schedule{}, err
	}

	var link model.Schedule
	if err := s.linkTerritory(ctx, &link, in.TerritoryID); err != nil {
		return model.Schedule{}, err
	}

	var out model.Schedule
	err := s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		i := indexByID(items, id, scheduleID)
		if i < 0 {
			return nil, notFound("schedule", id)
		}
		sc := &items[i]
		sc.Date = dates.Normalize(in.Date)
		sc.Time = in.Time
		sc.Location = in.Location
		sc.Category = in.Category
		sc.MaxParticipants = in.MaxParticipants
		sc.AllowRegistration = in.AllowRegistration
		if in.Participants != nil {
			sc.Participants = slices.Clone(in.Participants)
		}
		sc.TerritoryID, sc.TerritoryNumber, sc.TerritoryAddress = "", "", ""
		if in.TerritoryID != "" {
			sc.TerritoryID = link.TerritoryID
			sc.TerritoryNumber = link.TerritoryNumber
			sc.TerritoryAddress = link.TerritoryAddress
			if sc.Location == "" {
				sc.Location = link.Location
			}
		}
		out = sc.Clone()
		sortSchedules(items)
		return items, nil
	})
	return out, err
}

// Delete removes one schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	return s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		i := indexByID(items, id, scheduleID)
		if i < 0 {
			return nil, notFound("schedule", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

// DeleteMany removes every schedule whose id is in ids and reports how many
// were removed. Unknown ids are ignored.
func (s *ScheduleService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Fields: []FieldError{{"ids", "required"}}}
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	removed := 0
	err := s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		kept := items[:0]
		for _, sc := range items {
			if drop[sc.ID] {
				removed++
				continue
			}
			kept = append(kept, sc)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// CreateFromTerritories creates one schedule per territory for today at
// DefaultTerritoryTime. Cart territories get cart schedules open for
// registration.
func (s *ScheduleService) CreateFromTerritories(ctx context.Context, ids []string) ([]model.Schedule, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Fields: []FieldError{{"territoryIds", "required"}}}
	}
	territories, err := s.territories.Load(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	created := make([]model.Schedule, 0, len(ids))
	var v validator
	for _, id := range ids {
		i := indexByID(territories, id, territoryID)
		if i < 0 {
			v.add("territoryIds", fmt.Sprintf("unknown territory %q", id))
			continue
		}
		t := territories[i]
		sc := model.Schedule{
			ID:              s.newID(),
			Date:            today,
			Time:            DefaultTerritoryTime,
			Category:        model.ScheduleHouse,
			MaxParticipants: DefaultMaxParticipants,
			Participants:    []model.Participant{},
		}
		if t.IsCart() {
			sc.Category = model.ScheduleCart
			sc.AllowRegistration = true
		}
		fillFromTerritory(&sc, t)
		created = append(created, sc)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	err = s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		items = append(items, created...)
		sortSchedules(items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Join registers p on a schedule. Registering the same participant twice is
// a no-op. A participant given only by id is resolved against publishers.
func (s *ScheduleService) Join(ctx context.Context, id string, p model.Participant) (model.Schedule, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" && p.ID != "" {
		names, err := s.publisherNames(ctx)
		if err != nil {
			return model.Schedule{}, err
		}
		p.Name = names[p.ID]
	}
	if p.Name == "" {
		return model.Schedule{}, &ValidationError{Fields: []FieldError{{"name", "required"}}}
	}

	var out model.Schedule
	err := s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		i := indexByID(items, id, scheduleID)
		if i < 0 {
			return nil, notFound("schedule", id)
		}
		sc := &items[i]
		if slices.ContainsFunc(sc.Participants, p.Same) {
			out = sc.Clone()
			return items, nil
		}
		if sc.IsFull() {
			return nil, fmt.Errorf("%d of %d places taken: %w", len(sc.Participants), sc.MaxParticipants, ErrScheduleFull)
		}
		sc.Participants = append(sc.Participants, p)
		out = sc.Clone()
		return items, nil
	})
	return out, err
}

// Leave removes the participant identified by key, which is matched against
// participant ids first and names second.
func (s *ScheduleService) Leave(ctx context.Context, id, key string) (model.Schedule, error) {
	var out model.Schedule
	err := s.schedules.Update(ctx, func(items []model.Schedule) ([]model.Schedule, error) {
		i := indexByID(items, id, scheduleID)
		if i < 0 {
			return nil, notFound("schedule", id)
		}
		sc := &items[i]
		j := slices.IndexFunc(sc.Participants, func(p model.Participant) bool { return p.ID != "" && p.ID == key })
		if j < 0 {
			j = slices.IndexFunc(sc.Participants, func(p model.Participant) bool { return strings.EqualFold(p.Name, key) })
		}
		if j < 0 {
			return nil, notFound("participant", key)
		}
		sc.Participants = slices.Delete(sc.Participants, j, j+1)
		out = sc.Clone()
		return items, nil
	})
	return out, err
}

func sortSchedules(items []model.Schedule) {
	slices.SortStableFunc(items, func(a, b model.Schedule) int {
		if c := dates.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
}
