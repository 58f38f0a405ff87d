package requestlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"techstack-backend/internal/shared/storage/object"
	"techstack-backend/internal/shared/util"
)

// ArchiveSink stores each entry as its own JSON object, partitioned by model
// type and UTC day.
type ArchiveSink struct {
	store object.ObjectStore
}

// NewArchiveSink wraps an object store.
func NewArchiveSink(store object.ObjectStore) *ArchiveSink {
	return &ArchiveSink{store: store}
}

// Key returns the object key for e.
func (s *ArchiveSink) Key(e Entry) (string, error) {
	modelType, err := util.SanitizeSegment(e.ModelType)
	if err != nil {
		return "", fmt.Errorf("model type %q: %w", e.ModelType, err)
	}
	id, err := util.SanitizeSegment(e.ID)
	if err != nil {
		return "", fmt.Errorf("entry id %q: %w", e.ID, err)
	}
	return path.Join("requestlogs", modelType, e.Timestamp.UTC().Format("2006/01/02"), id+".json"), nil
}

// Write implements Sink.
func (s *ArchiveSink) Write(ctx context.Context, e Entry) error {
	key, err := s.Key(e)
	if err != nil {
		return err
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if _, err := s.store.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("archive entry: %w", err)
	}
	return nil
}
