package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/store"
	"go.uber.org/zap"
)

// CartService keeps the shortlist of schedules a volunteer saved.
type CartService struct {
	base
}

func (s *CartService) List(ctx context.Context) ([]model.CartItem, error) {
	items, err := s.cart.Load(ctx)
	if err != nil {
		return nil, err
	}
	sortCart(items)
	return items, nil
}

// Toggle adds the schedule to the cart, or removes it if already there. It
// reports whether the schedule is in the cart afterwards.
func (s *CartService) Toggle(ctx context.Context, id string) (bool, error) {
	schedules, err := s.schedules.Load(ctx)
	if err != nil {
		return false, err
	}

	added := false
	err = s.cart.Update(ctx, func(items []model.CartItem) ([]model.CartItem, error) {
		if i := slices.IndexFunc(items, func(c model.CartItem) bool { return c.ID == id }); i >= 0 {
			return slices.Delete(items, i, i+1), nil
		}
		j := indexByID(schedules, id, scheduleID)
		if j < 0 {
			return nil, notFound("schedule", id)
		}
		sc := schedules[j]
		added = true
		items = append(items, model.CartItem{
			ID:       sc.ID,
			Date:     sc.Date,
			Time:     sc.Time,
			Location: sc.Location,
			Category: sc.Category,
		})
		sortCart(items)
		return items, nil
	})
	return added, err
}

func sortCart(items []model.CartItem) {
	slices.SortStableFunc(items, func(a, b model.CartItem) int {
		if c := dates.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
}

// SettingsService reads and replaces the free-form settings object.
type SettingsService struct {
	base
}

// Get returns the stored settings; anything that is not a JSON object reads
// as empty.
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	raw, err := s.store.Raw(ctx, store.KeySettings)
	if err != nil {
		return nil, err
	}
	out := model.Settings{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		s.logger.Warn("malformed settings, treating as empty", zap.String("key", store.KeySettings), zap.Error(err))
		return model.Settings{}, nil
	}
	return out, nil
}

// Put replaces the settings object.
func (s *SettingsService) Put(ctx context.Context, settings model.Settings) (model.Settings, error) {
	if settings == nil {
		settings = model.Settings{}
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{"settings", err.Error()}}}
	}
	err = s.store.WithLock(func() error {
		return s.store.Put(ctx, store.KeySettings, b)
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}
