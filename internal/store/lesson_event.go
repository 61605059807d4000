package store

import (
	"context"
	"database/sql"
	"fmt"
)

var lessonColumns = []string{"lesson_id", "action", "difficulty"}

func (r *eventRepo) AppendLesson(ctx context.Context, data LessonEventData) error {
	err := r.insert(ctx, lessonTable, lessonColumns, []any{
		data.LessonID,
		data.Action,
		data.Difficulty,
	})
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEvent, error) {
	var out []LessonEvent
	err := r.scanAll(ctx, selectEvents(lessonTable, lessonColumns, opts), func(rows *sql.Rows) error {
		var (
			e  LessonEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.LessonID, &e.Action, &e.Difficulty); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	return out, nil
}
