package requestlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGSink inserts entries into the request_logs table.
type PGSink struct {
	DB *sql.DB
}

// Write implements Sink.
func (s *PGSink) Write(ctx context.Context, e Entry) error {
	const query = `
INSERT INTO request_logs (
	id, created_at, model_type, inputs, custom_prompt, master_prompt, response_preview, response_length
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	inputs, err := json.Marshal(e.Inputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, query,
		e.ID,
		e.Timestamp,
		e.ModelType,
		inputs,
		e.CustomPrompt,
		e.MasterPrompt,
		e.ResponsePreview,
		e.ResponseLength,
	)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

// Recent returns the newest entries for modelType, newest first.
func (s *PGSink) Recent(ctx context.Context, modelType string, limit int) ([]Entry, error) {
	const query = `
SELECT id, created_at, model_type, inputs, custom_prompt, master_prompt, response_preview, response_length
FROM request_logs
WHERE model_type = $1
ORDER BY created_at DESC
LIMIT $2`
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, query, modelType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var inputs []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ModelType, &inputs, &e.CustomPrompt, &e.MasterPrompt, &e.ResponsePreview, &e.ResponseLength); err != nil {
			return nil, err
		}
		if len(inputs) > 0 {
			if err := json.Unmarshal(inputs, &e.Inputs); err != nil {
				return nil, fmt.Errorf("decode inputs for %s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
