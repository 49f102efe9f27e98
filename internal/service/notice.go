package service

import (
	"context"
	"slices"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
)

type NoticeService struct {
	base
}

type NoticeInput struct {
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Date       string           `json:"date"`
	ExpireDate string           `json:"expireDate"`
	Importance model.Importance `json:"importance"`
	Category   string           `json:"category"`
	ImageURL   string           `json:"imageUrl"`
}

func (in *NoticeInput) normalize(today string) {
	if in.Importance == "" {
		in.Importance = model.ImportanceMedium
	}
	if in.Date == "" {
		in.Date = today
	}
}

func (in NoticeInput) validate() error {
	var v validator
	v.required("title", in.Title)
	v.required("content", in.Content)
	v.date("date", in.Date)
	v.date("expireDate", in.ExpireDate)
	if !in.Importance.Valid() {
		v.add("importance", "must be one of low, medium, high")
	}
	return v.err()
}

func noticeID(n model.Notice) string { return n.ID }

// List returns every notice, newest first.
func (s *NoticeService) List(ctx context.Context) ([]model.Notice, error) {
	items, err := s.notices.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b model.Notice) int {
		return dates.Compare(b.Date, a.Date)
	})
	return items, nil
}

// Current returns notices still in effect today, most important first and
// newest first within the same importance. A notice with an expiry date is
// current until that date inclusive; one without stays current only while
// its own date is today or later.
func (s *NoticeService) Current(ctx context.Context) ([]model.Notice, error) {
	items, err := s.notices.Load(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := make([]model.Notice, 0, len(items))
	for _, n := range items {
		if isCurrent(n, today) {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Notice) int {
		if c := a.Importance.Rank() - b.Importance.Rank(); c != 0 {
			return c
		}
		return dates.Compare(b.Date, a.Date)
	})
	return out, nil
}

func isCurrent(n model.Notice, today string) bool {
	if n.ExpireDate != "" {
		return dates.Compare(n.ExpireDate, today) >= 0
	}
	return dates.Compare(n.Date, today) >= 0
}

func (s *NoticeService) Create(ctx context.Context, in NoticeInput) (model.Notice, error) {
	in.normalize(s.today())
	if err := in.validate(); err != nil {
		return model.Notice{}, err
	}
	stamp := s.clock().Format(timestampLayout)
	n := model.Notice{
		ID:        s.newID(),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	in.applyTo(&n)

	err := s.notices.Update(ctx, func(items []model.Notice) ([]model.Notice, error) {
		return append(items, n), nil
	})
	return n, err
}

func (in NoticeInput) applyTo(n *model.Notice) {
	n.Title = in.Title
	n.Content = in.Content
	n.Date = dates.Normalize(in.Date)
	n.ExpireDate = dates.Normalize(in.ExpireDate)
	n.Importance = in.Importance
	n.Category = in.Category
	n.ImageURL = in.ImageURL
}

func (s *NoticeService) Update(ctx context.Context, id string, in NoticeInput) (model.Notice, error) {
	in.normalize(s.today())
	if err := in.validate(); err != nil {
		return model.Notice{}, err
	}
	var out model.Notice
	err := s.notices.Update(ctx, func(items []model.Notice) ([]model.Notice, error) {
		i := indexByID(items, id, noticeID)
		if i < 0 {
			return nil, notFound("notice", id)
		}
		in.applyTo(&items[i])
		items[i].UpdatedAt = s.clock().Format(timestampLayout)
		out = items[i]
		return items, nil
	})
	return out, err
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	return s.notices.Update(ctx, func(items []model.Notice) ([]model.Notice, error) {
		i := indexByID(items, id, noticeID)
		if i < 0 {
			return nil, notFound("notice", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}
