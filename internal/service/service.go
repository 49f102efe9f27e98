package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/store"
	"go.uber.org/zap"
)

// Options configures the services built by New. Zero values fall back to the
// wall clock, the local timezone and random UUIDs.
type Options struct {
	Now      func() time.Time
	Location *time.Location
	NewID    func() string
}

// Services bundles every service over one store.
type Services struct {
	Territories *TerritoryService
	Schedules   *ScheduleService
	Notices     *NoticeService
	Publishers  *PublisherService
	Cleaning    *CleaningService
	Areas       *AreaService
	Cart        *CartService
	Settings    *SettingsService
	Backup      *BackupService
	Migrator    *Migrator
	Stats       *StatsService
	Reports     *ReportService
}

// New wires all services to s.
func New(s *store.Store, opts Options) *Services {
	b := newBase(s, opts)
	territories := &TerritoryService{base: b}
	return &Services{
		Territories: territories,
		Schedules:   &ScheduleService{base: b},
		Notices:     &NoticeService{base: b},
		Publishers:  &PublisherService{base: b},
		Cleaning:    &CleaningService{base: b},
		Areas:       &AreaService{base: b, parser: NewParser()},
		Cart:        &CartService{base: b},
		Settings:    &SettingsService{base: b},
		Backup:      &BackupService{base: b},
		Migrator:    &Migrator{base: b},
		Stats:       &StatsService{base: b},
		Reports:     &ReportService{base: b, territories: territories},
	}
}

// base carries what every service needs: the store, typed collections and
// the clock.
type base struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string

	territories *store.Collection[model.Territory]
	publishers  *store.Collection[model.Publisher]
	notices     *store.Collection[model.Notice]
	schedules   *store.Collection[model.Schedule]
	cleaning    *store.Collection[model.CleaningGroup]
	areas       *store.Collection[model.AreaDocument]
	cart        *store.Collection[model.CartItem]
}

func newBase(s *store.Store, opts Options) base {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return base{
		store:       s,
		logger:      s.Logger(),
		now:         opts.Now,
		loc:         opts.Location,
		newID:       opts.NewID,
		territories: store.NewCollection[model.Territory](s, store.KeyTerritories),
		publishers:  store.NewCollection[model.Publisher](s, store.KeyPublishers),
		notices:     store.NewCollection[model.Notice](s, store.KeyNotices),
		schedules:   store.NewCollection[model.Schedule](s, store.KeySchedules),
		cleaning:    store.NewCollection[model.CleaningGroup](s, store.KeyCleaningGroups),
		areas:       store.NewCollection[model.AreaDocument](s, store.KeyAreas),
		cart:        store.NewCollection[model.CartItem](s, store.KeyCart),
	}
}

// timestampLayout is used for createdAt/updatedAt/uploadedAt stamps.
const timestampLayout = time.RFC3339

// clock returns the current time in the configured location.
func (b base) clock() time.Time { return b.now().In(b.loc) }

// today is the current calendar date as yyyy-MM-dd.
func (b base) today() string { return dates.Format(b.clock()) }

// indexByID returns the position of the element with id, or -1.
func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}
