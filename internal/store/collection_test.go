package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedStore(t *testing.T) (*Store, *MemoryRepository, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	repo := NewMemoryRepository()
	return New(repo, zap.New(core)), repo, logs
}

func TestCollectionLoad_MissingKeyIsEmpty(t *testing.T) {
	s, _, logs := newObservedStore(t)

	items, err := NewCollection[model.Notice](s, KeyNotices).Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Zero(t, logs.Len())
}

func TestCollectionLoad_NonArrayIsEmptyWithWarning(t *testing.T) {
	s, repo, logs := newObservedStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, KeyNotices, []byte(`{"oops":true}`)))

	items, err := NewCollection[model.Notice](s, KeyNotices).Load(ctx)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, logs.FilterMessage("malformed collection, treating as empty").Len())
}

func TestCollectionLoad_SkipsBadElements(t *testing.T) {
	s, repo, logs := newObservedStore(t)
	ctx := context.Background()
	raw := `[{"id":"a","name":"Ana"}, 42, {"id":"b","name":"Ben"}]`
	require.NoError(t, repo.Put(ctx, KeyPublishers, []byte(raw)))

	items, err := NewCollection[model.Publisher](s, KeyPublishers).Load(ctx)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed element").Len())
}

func TestCollectionLoad_LogsRepairedTerritories(t *testing.T) {
	s, repo, logs := newObservedStore(t)
	ctx := context.Background()
	raw := `[{"id":"t1","number":7,"status":"proceso","history":"broken"}]`
	require.NoError(t, repo.Put(ctx, KeyTerritories, []byte(raw)))

	items, err := NewCollection[model.Territory](s, KeyTerritories).Load(ctx)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].Number)
	assert.Equal(t, tracker.InProgress, items[0].Status)
	assert.Empty(t, items[0].History)

	repaired := logs.FilterMessage("repaired malformed data").All()
	require.NotEmpty(t, repaired)
	assert.Equal(t, KeyTerritories, repaired[0].ContextMap()["key"])
}

func TestCollectionSave_NilWritesEmptyArray(t *testing.T) {
	s, repo, _ := newObservedStore(t)
	ctx := context.Background()

	require.NoError(t, NewCollection[model.Notice](s, KeyNotices).Save(ctx, nil))

	raw, err := repo.Get(ctx, KeyNotices)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestCollectionUpdate_ErrorLeavesSnapshot(t *testing.T) {
	s, repo, _ := newObservedStore(t)
	ctx := context.Background()
	notices := NewCollection[model.Notice](s, KeyNotices)
	require.NoError(t, notices.Save(ctx, []model.Notice{{ID: "n1"}}))

	boom := errors.New("rejected")
	err := notices.Update(ctx, func(items []model.Notice) ([]model.Notice, error) {
		return append(items, model.Notice{ID: "n2"}), boom
	})

	assert.ErrorIs(t, err, boom)
	raw, err := repo.Get(ctx, KeyNotices)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"n1","title":"","content":"","date":"","importance":""}]`, string(raw))
}

func TestCollectionUpdate_SerializesWriters(t *testing.T) {
	s, _, _ := newObservedStore(t)
	ctx := context.Background()
	groups := NewCollection[model.CleaningGroup](s, KeyCleaningGroups)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := groups.Update(ctx, func(items []model.CleaningGroup) ([]model.CleaningGroup, error) {
				return append(items, model.CleaningGroup{ID: "g"}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := groups.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestStoreClear(t *testing.T) {
	s, repo, _ := newObservedStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, KeyTerritories, []byte(`[]`)))
	require.NoError(t, repo.Put(ctx, KeySettings, []byte(`{}`)))

	require.NoError(t, s.Clear(ctx))

	for _, k := range Keys {
		raw, err := s.Raw(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, raw, k)
	}
}

func TestStoreInventory(t *testing.T) {
	s, repo, _ := newObservedStore(t)
	ctx := context.Background()
	before := time.Now()
	require.NoError(t, repo.Put(ctx, KeySettings, []byte(`{}`)))
	require.NoError(t, s.PutAll(ctx, map[string][]byte{KeyNotices: []byte(`[]`)}))

	items, err := s.Inventory(ctx)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, KeyNotices, items[0].Key)
	assert.Equal(t, KeySettings, items[1].Key)
	assert.False(t, items[0].UpdatedAt.Before(before))

	require.NoError(t, s.Clear(ctx))
	items, err = s.Inventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
