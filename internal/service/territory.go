package service

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"go.uber.org/zap"
)

// TerritoryService manages territories and their status lifecycle.
type TerritoryService struct {
	base
}

// TerritoryInput is the editable part of a territory.
type TerritoryInput struct {
	Number    string `json:"number"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	PlaceType string `json:"placeType"`
	Address   string `json:"address"`
	URL       string `json:"url"`
	Group     string `json:"group"`
	CaptainID string `json:"captainId"`
}

func (in TerritoryInput) validate() error {
	var v validator
	v.required("number", in.Number)
	if v.required("category", in.Category) {
		v.oneOf("category", in.Category, model.TerritoryCategories)
	}
	if v.required("placeType", in.PlaceType) {
		v.oneOf("placeType", in.PlaceType, model.PlaceTypes)
	}
	v.required("url", in.URL)
	return v.err()
}

func (in TerritoryInput) applyTo(t *model.Territory) {
	t.Number = strings.TrimSpace(in.Number)
	t.Name = in.Name
	t.Category = in.Category
	t.PlaceType = in.PlaceType
	t.Address = in.Address
	t.URL = in.URL
	t.Group = in.Group
	t.CaptainID = in.CaptainID
}

// AssignInput hands a territory to a publisher.
type AssignInput struct {
	AssigneeID   string `json:"assigneeId"`
	AssignedDate string `json:"assignedDate"`
	DueDate      string `json:"dueDate"`
	Group        string `json:"group"`
}

// TerritoryFilter narrows List. Empty fields match everything.
type TerritoryFilter struct {
	Status    string
	Category  string
	PlaceType string
	Query     string
}

// TerritoryView is a territory with publisher references resolved to names.
type TerritoryView struct {
	model.Territory
	AssigneeName  string `json:"assigneeName,omitempty"`
	CaptainName   string `json:"captainName,omitempty"`
	LastCompleted string `json:"lastCompleted,omitempty"`
}

func territoryID(t model.Territory) string { return t.ID }

// List returns territories matching f, ordered by number.
func (s *TerritoryService) List(ctx context.Context, f TerritoryFilter) ([]TerritoryView, error) {
	var status tracker.Status
	if f.Status != "" {
		st, err := tracker.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	items, err := s.territories.Load(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.publisherNames(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	views := make([]TerritoryView, 0, len(items))
	for _, t := range items {
		if status != "" && t.Status != status {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.PlaceType != "" && t.PlaceType != f.PlaceType {
			continue
		}
		v := project(t, names)
		if query != "" && !v.matches(query) {
			continue
		}
		views = append(views, v)
	}

	slices.SortStableFunc(views, func(a, b TerritoryView) int {
		return CompareNumbers(a.Number, b.Number)
	})
	return views, nil
}

func (v TerritoryView) matches(q string) bool {
	for _, field := range []string{v.Number, v.Name, v.Address, v.AssigneeName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Get returns one territory by id.
func (s *TerritoryService) Get(ctx context.Context, id string) (TerritoryView, error) {
	items, err := s.territories.Load(ctx)
	if err != nil {
		return TerritoryView{}, err
	}
	i := indexByID(items, id, territoryID)
	if i < 0 {
		return TerritoryView{}, notFound("territory", id)
	}
	names, err := s.publisherNames(ctx)
	if err != nil {
		return TerritoryView{}, err
	}
	return project(items[i], names), nil
}

// Create adds a territory in the not-started state.
func (s *TerritoryService) Create(ctx context.Context, in TerritoryInput) (model.Territory, error) {
	if err := in.validate(); err != nil {
		return model.Territory{}, err
	}

	t := model.Territory{
		ID:        s.newID(),
		Tracking:  tracker.New(),
		CreatedAt: s.clock().Format(timestampLayout),
	}
	in.applyTo(&t)

	err := s.territories.Update(ctx, func(items []model.Territory) ([]model.Territory, error) {
		return append(items, t), nil
	})
	if err != nil {
		return model.Territory{}, err
	}
	s.logger.Info("territory created", zap.String("id", t.ID), zap.String("number", t.Number))
	return t, nil
}

// Update replaces the editable fields of a territory. Status, history and
// assignment are untouched.
func (s *TerritoryService) Update(ctx context.Context, id string, in TerritoryInput) (model.Territory, error) {
	if err := in.validate(); err != nil {
		return model.Territory{}, err
	}
	return s.mutate(ctx, id, func(t *model.Territory) error {
		in.applyTo(t)
		return nil
	})
}

// Delete removes a territory.
func (s *TerritoryService) Delete(ctx context.Context, id string) error {
	return s.territories.Update(ctx, func(items []model.Territory) ([]model.Territory, error) {
		i := indexByID(items, id, territoryID)
		if i < 0 {
			return nil, notFound("territory", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

// ChangeStatus records a transition to status, which may be a canonical
// value or a known alias.
func (s *TerritoryService) ChangeStatus(ctx context.Context, id, status string) (model.Territory, error) {
	st, err := tracker.ParseStatus(status)
	if err != nil {
		return model.Territory{}, err
	}
	at := s.clock()
	return s.mutate(ctx, id, func(t *model.Territory) error {
		next, err := t.Tracking.Apply(st, at)
		if err != nil {
			return err
		}
		t.Tracking = next
		if st == tracker.NotStarted {
			clearAssignment(t)
		}
		return nil
	})
}

// Assign hands a territory to a publisher and marks it in progress.
func (s *TerritoryService) Assign(ctx context.Context, id string, in AssignInput) (model.Territory, error) {
	var v validator
	v.required("assigneeId", in.AssigneeID)
	v.date("assignedDate", in.AssignedDate)
	v.date("dueDate", in.DueDate)
	if err := v.err(); err != nil {
		return model.Territory{}, err
	}

	names, err := s.publisherNames(ctx)
	if err != nil {
		return model.Territory{}, err
	}
	name, ok := names[in.AssigneeID]
	if !ok {
		return model.Territory{}, &ValidationError{Fields: []FieldError{{"assigneeId", "unknown publisher"}}}
	}

	at := s.clock()
	return s.mutate(ctx, id, func(t *model.Territory) error {
		next, err := t.Tracking.ApplyWith(tracker.InProgress, at, name)
		if err != nil {
			return err
		}
		t.Tracking = next
		t.AssigneeID = in.AssigneeID
		t.AssignedDate = dates.Format(at)
		if in.AssignedDate != "" {
			t.AssignedDate = dates.Normalize(in.AssignedDate)
		}
		t.DueDate = dates.Normalize(in.DueDate)
		if in.Group != "" {
			t.Group = in.Group
		}
		return nil
	})
}

// Complete marks a territory as worked.
func (s *TerritoryService) Complete(ctx context.Context, id string) (model.Territory, error) {
	return s.ChangeStatus(ctx, id, string(tracker.Completed))
}

// Release returns a territory to the pool and clears its assignment.
func (s *TerritoryService) Release(ctx context.Context, id string) (model.Territory, error) {
	return s.ChangeStatus(ctx, id, string(tracker.NotStarted))
}

func clearAssignment(t *model.Territory) {
	t.AssigneeID = ""
	t.AssignedDate = ""
	t.DueDate = ""
}

func (s *TerritoryService) mutate(ctx context.Context, id string, fn func(*model.Territory) error) (model.Territory, error) {
	var out model.Territory
	err := s.territories.Update(ctx, func(items []model.Territory) ([]model.Territory, error) {
		i := indexByID(items, id, territoryID)
		if i < 0 {
			return nil, notFound("territory", id)
		}
		if err := fn(&items[i]); err != nil {
			return nil, err
		}
		out = items[i]
		return items, nil
	})
	return out, err
}

func (b base) publisherNames(ctx context.Context) (map[string]string, error) {
	pubs, err := b.publishers.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(pubs))
	for _, p := range pubs {
		names[p.ID] = p.Name
	}
	return names, nil
}

func project(t model.Territory, names map[string]string) TerritoryView {
	v := TerritoryView{
		Territory:    t,
		AssigneeName: names[t.AssigneeID],
		CaptainName:  names[t.CaptainID],
	}
	if v.AssigneeName == "" {
		v.AssigneeName = t.LegacyAssignedTo
	}
	if v.CaptainName == "" {
		v.CaptainName = t.LegacyCaptain
	}
	if e, ok := tracker.MostRecent(t.History, tracker.Completed); ok {
		v.LastCompleted = e.Date
	}
	return v
}

// CompareNumbers orders territory numbers numerically when both are
// integers and lexicographically otherwise.
func CompareNumbers(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
