package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/jjenkins/fieldservice/internal/config"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRepository_Memory(t *testing.T) {
	cfg := config.Default()

	repo, err := openRepository(context.Background(), cfg, zap.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &store.MemoryRepository{}, repo)
}

func TestOpenRepository_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := openRepository(context.Background(), cfg, zap.NewNop())

	assert.Error(t, err)
}

func TestClearRequiresConfirmation(t *testing.T) {
	clearYes = false

	err := runClear(clearCmd, nil)

	assert.EqualError(t, err, "refusing to delete all data without --yes")
}

func TestRenderStats(t *testing.T) {
	sum := &service.Summary{
		TotalTerritories:   3,
		TerritoriesBy:      map[tracker.Status]int{tracker.NotStarted: 1, tracker.InProgress: 1, tracker.Completed: 1},
		TerritoriesByGroup: map[string]int{"centro": 2, "edo": 1},
		Overdue:            1,
		AreasBy:            map[tracker.Status]int{},
		Publishers:         4,
		Collections: []store.KeyInfo{
			{Key: store.KeyNotices, UpdatedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)},
			{Key: "legacy"},
		},
	}

	out := renderStats(sum)

	assert.Contains(t, out, "Territories")
	assert.Contains(t, out, "centro")
	assert.Contains(t, out, "Publishers")
	assert.Contains(t, out, "Last updated")
	assert.Contains(t, out, "2024-03-15 09:30")
	assert.Contains(t, out, "legacy")
}
