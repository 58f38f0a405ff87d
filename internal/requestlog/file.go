package requestlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"techstack-backend/internal/shared/util"
)

// FileSink appends entries as JSON lines to <dir>/<model_type>_responses.jsonl.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Path returns the file used for modelType.
func (s *FileSink) Path(modelType string) (string, error) {
	name, err := util.SanitizeSegment(modelType)
	if err != nil {
		return "", fmt.Errorf("model type %q: %w", modelType, err)
	}
	return filepath.Join(s.dir, name+"_responses.jsonl"), nil
}

// Write implements Sink.
func (s *FileSink) Write(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(e.ModelType)
	if err != nil {
		return err
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append log file: %w", err)
	}
	return nil
}
