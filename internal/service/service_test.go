package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedNow is 2024-03-15 09:30 UTC, a Friday.
var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	svc   *Services
	repo  *store.MemoryRepository
	store *store.Store
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{repo: store.NewMemoryRepository(), now: fixedNow}
	env.store = store.New(env.repo, zap.NewNop())
	seq := 0
	env.svc = New(env.store, Options{
		Now:      func() time.Time { return env.now },
		Location: time.UTC,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return env
}

func (e *testEnv) seed(t *testing.T, key, raw string) {
	t.Helper()
	require.NoError(t, e.repo.Put(context.Background(), key, []byte(raw)))
}

func (e *testEnv) raw(t *testing.T, key string) string {
	t.Helper()
	b, err := e.repo.Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}

func validTerritory(number string) TerritoryInput {
	return TerritoryInput{
		Number:    number,
		Category:  "centro",
		PlaceType: "casa",
		Address:   "Calle " + number,
		URL:       "https://maps.example/" + number + ".pdf",
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}
