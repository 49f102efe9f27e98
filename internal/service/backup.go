package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/jjenkins/fieldservice/internal/store"
	"go.uber.org/zap"
)

// RequiredKeys must all be present in a restore document.
var RequiredKeys = []string{
	store.KeyTerritories,
	store.KeyPublishers,
	store.KeyNotices,
	store.KeyCleaningGroups,
}

// ExportedAtKey is metadata added to exports and ignored on restore.
const ExportedAtKey = "exportedAt"

// RestoreStats tracks what a restore wrote
type RestoreStats struct {
	Written map[string]int
	Ignored []string
}

// BackupService exports and restores every collection as one JSON document.
type BackupService struct {
	base
}

// Export returns every collection keyed by storage key. Keys never written
// export as an empty collection.
func (s *BackupService) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage, len(store.Keys)+1)
	for _, key := range store.Keys {
		raw, err := s.store.Raw(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", key, err)
		}
		doc[key] = s.exportValue(key, raw)
	}
	stamp, _ := json.Marshal(s.clock().Format(timestampLayout))
	doc[ExportedAtKey] = stamp
	return doc, nil
}

func (s *BackupService) exportValue(key string, raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	empty := json.RawMessage(`[]`)
	if key == store.KeySettings {
		empty = json.RawMessage(`{}`)
	}
	if len(raw) == 0 {
		return empty
	}
	if err := checkShape(key, raw); err != nil {
		s.logger.Warn("malformed collection exported as empty", zap.String("key", key), zap.Error(err))
		return empty
	}
	return json.RawMessage(raw)
}

// WriteTo streams the export as indented JSON.
func (s *BackupService) WriteTo(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Import validates a backup document and, only if it is complete, overwrites
// every known key it contains in one write.
func (s *BackupService) Import(ctx context.Context, data []byte) (*RestoreStats, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, &ImportValidationError{Detail: "document is not a JSON object"}
	}

	verr := &ImportValidationError{}
	for _, key := range RequiredKeys {
		if _, ok := doc[key]; !ok {
			verr.Missing = append(verr.Missing, key)
		}
	}

	stats := &RestoreStats{Written: make(map[string]int)}
	values := make(map[string][]byte)
	for key, raw := range doc {
		if !slices.Contains(store.Keys, key) {
			if key != ExportedAtKey {
				stats.Ignored = append(stats.Ignored, key)
			}
			continue
		}
		raw = bytes.TrimSpace(raw)
		if err := checkShape(key, raw); err != nil {
			verr.Invalid = append(verr.Invalid, key)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			verr.Invalid = append(verr.Invalid, key)
			continue
		}
		values[key] = buf.Bytes()
		stats.Written[key] = countElements(raw)
	}
	slices.Sort(verr.Invalid)
	slices.Sort(stats.Ignored)

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return nil, verr
	}

	err := s.store.WithLock(func() error {
		return s.store.PutAll(ctx, values)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}

	s.logger.Info("backup restored", zap.Int("keys", len(values)), zap.Strings("ignored", stats.Ignored))
	return stats, nil
}

// ReadFrom restores a backup read from r.
func (s *BackupService) ReadFrom(ctx context.Context, r io.Reader) (*RestoreStats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return s.Import(ctx, data)
}

// Clear deletes every collection.
func (s *BackupService) Clear(ctx context.Context) error {
	err := s.store.WithLock(func() error {
		return s.store.Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	s.logger.Warn("all collections cleared")
	return nil
}

// checkShape requires settings to be an object and every other key an array.
func checkShape(key string, raw []byte) error {
	if key == store.KeySettings {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return fmt.Errorf("%s must be a JSON object", key)
		}
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || arr == nil {
		return fmt.Errorf("%s must be a JSON array", key)
	}
	return nil
}

func countElements(raw []byte) int {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return len(arr)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return len(obj)
	}
	return 0
}
