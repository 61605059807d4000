package store

import (
	"context"
	"database/sql"
	"fmt"
)

var runColumns = []string{
	"run_id", "lesson_id", "difficulty", "task_id",
	"code_bytes", "output_bytes", "duration_ms", "failed", "error_message",
}

func (r *eventRepo) AppendRun(ctx context.Context, data RunEventData) error {
	err := r.insert(ctx, runTable, runColumns, []any{
		data.RunID,
		data.LessonID,
		data.Difficulty,
		data.TaskID,
		data.CodeBytes,
		data.OutputBytes,
		data.DurationMs,
		data.Failed,
		data.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save run event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRunEvents(ctx context.Context, opts QueryOpts) ([]RunEvent, error) {
	var out []RunEvent
	err := r.scanAll(ctx, selectEvents(runTable, runColumns, opts), func(rows *sql.Rows) error {
		var (
			e  RunEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts,
			&e.RunID, &e.LessonID, &e.Difficulty, &e.TaskID,
			&e.CodeBytes, &e.OutputBytes, &e.DurationMs, &e.Failed, &e.ErrorMessage,
		); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	return out, nil
}
