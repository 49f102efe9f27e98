package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrMiss is returned by Repository.Get when a key has never been written.
var ErrMiss = errors.New("collection not found")

// Collection keys. Each key holds one JSON document written as a whole.
const (
	KeyTerritories    = "territories"
	KeyPublishers     = "publishers"
	KeyNotices        = "notices"
	KeySchedules      = "schedules"
	KeyCleaningGroups = "cleaningGroups"
	KeySettings       = "settings"
	KeyAreas          = "pdfFiles"
	KeyCart           = "serviceCart"
)

// Keys lists every collection key in backup order.
var Keys = []string{
	KeyTerritories,
	KeyPublishers,
	KeyNotices,
	KeySchedules,
	KeyCleaningGroups,
	KeySettings,
	KeyAreas,
	KeyCart,
}

// Repository stores whole-collection snapshots by key. A read returns the
// last fully written snapshot; a write replaces it.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutAll writes every entry or none of them.
	PutAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	// Inventory lists the keys currently stored, ordered by key.
	Inventory(ctx context.Context) ([]KeyInfo, error)
	Close() error
}

// KeyInfo describes one stored collection.
type KeyInfo struct {
	Key       string    `json:"key"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func sortInventory(items []KeyInfo) {
	slices.SortFunc(items, func(a, b KeyInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
}
