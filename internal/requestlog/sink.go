package requestlog

import (
	"context"
	"errors"

	"techstack-backend/internal/shared/telemetry"
)

// Sink stores request log entries.
type Sink interface {
	Write(ctx context.Context, e Entry) error
}

// Multi fans an entry out to every sink. All sinks are attempted; their
// errors are joined.
type Multi []Sink

// Write implements Sink.
func (m Multi) Write(ctx context.Context, e Entry) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Record writes e to sink and reports failures through telemetry only.
// Request handling never fails because logging did.
func Record(ctx context.Context, sink Sink, e Entry) {
	if sink == nil {
		return
	}
	if err := sink.Write(ctx, e); err != nil {
		telemetry.Error("requestlog.write_failed", map[string]any{
			"entry_id":   e.ID,
			"model_type": e.ModelType,
			"error":      err.Error(),
		})
	}
}
