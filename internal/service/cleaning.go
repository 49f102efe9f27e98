package service

import (
	"context"
	"slices"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
)

// CleaningService manages the hall cleaning rotation.
type CleaningService struct {
	base
}

type CleaningGroupInput struct {
	GroupNumber string   `json:"groupNumber"`
	Date        string   `json:"date"`
	Leader      string   `json:"leader"`
	Members     []string `json:"members"`
}

func (in CleaningGroupInput) validate() error {
	var v validator
	v.required("groupNumber", in.GroupNumber)
	if v.required("date", in.Date) {
		v.date("date", in.Date)
	}
	return v.err()
}

func (in CleaningGroupInput) applyTo(g *model.CleaningGroup) {
	g.GroupNumber = strings.TrimSpace(in.GroupNumber)
	g.Date = dates.Normalize(in.Date)
	g.Leader = in.Leader
	g.Members = slices.DeleteFunc(slices.Clone(in.Members), func(m string) bool {
		return strings.TrimSpace(m) == ""
	})
	if g.Members == nil {
		g.Members = []string{}
	}
}

func groupID(g model.CleaningGroup) string { return g.ID }

// Rotation is the group on duty now and the one after it. Either may be nil.
type Rotation struct {
	Current *model.CleaningGroup `json:"current"`
	Next    *model.CleaningGroup `json:"next"`
}

// List returns groups ordered by date.
func (s *CleaningService) List(ctx context.Context) ([]model.CleaningGroup, error) {
	items, err := s.cleaning.Load(ctx)
	if err != nil {
		return nil, err
	}
	sortGroups(items)
	return items, nil
}

// Rotation finds the group whose date is the latest on or before today and
// the first group after today.
func (s *CleaningService) Rotation(ctx context.Context) (Rotation, error) {
	items, err := s.List(ctx)
	if err != nil {
		return Rotation{}, err
	}
	today := s.today()
	var r Rotation
	for i := range items {
		g := items[i]
		if !dates.Parse(g.Date).Valid() {
			continue
		}
		if dates.Compare(g.Date, today) <= 0 {
			r.Current = &g
		} else if r.Next == nil {
			r.Next = &g
		}
	}
	return r, nil
}

func (s *CleaningService) Create(ctx context.Context, in CleaningGroupInput) (model.CleaningGroup, error) {
	if err := in.validate(); err != nil {
		return model.CleaningGroup{}, err
	}
	g := model.CleaningGroup{ID: s.newID()}
	in.applyTo(&g)
	err := s.cleaning.Update(ctx, func(items []model.CleaningGroup) ([]model.CleaningGroup, error) {
		items = append(items, g)
		sortGroups(items)
		return items, nil
	})
	return g, err
}

func (s *CleaningService) Update(ctx context.Context, id string, in CleaningGroupInput) (model.CleaningGroup, error) {
	if err := in.validate(); err != nil {
		return model.CleaningGroup{}, err
	}
	var out model.CleaningGroup
	err := s.cleaning.Update(ctx, func(items []model.CleaningGroup) ([]model.CleaningGroup, error) {
		i := indexByID(items, id, groupID)
		if i < 0 {
			return nil, notFound("cleaning group", id)
		}
		in.applyTo(&items[i])
		out = items[i]
		sortGroups(items)
		return items, nil
	})
	return out, err
}

func (s *CleaningService) Delete(ctx context.Context, id string) error {
	return s.cleaning.Update(ctx, func(items []model.CleaningGroup) ([]model.CleaningGroup, error) {
		i := indexByID(items, id, groupID)
		if i < 0 {
			return nil, notFound("cleaning group", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func sortGroups(items []model.CleaningGroup) {
	slices.SortStableFunc(items, func(a, b model.CleaningGroup) int {
		return dates.Compare(a.Date, b.Date)
	})
}
