package store

import (
	"context"
	"database/sql"
	"fmt"
)

var quizColumns = []string{"lesson_id", "score", "total", "passed"}

func (r *eventRepo) AppendQuiz(ctx context.Context, data QuizEventData) error {
	err := r.insert(ctx, quizTable, quizColumns, []any{
		data.LessonID,
		data.Score,
		data.Total,
		data.Passed,
	})
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error) {
	var out []QuizEvent
	err := r.scanAll(ctx, selectEvents(quizTable, quizColumns, opts), func(rows *sql.Rows) error {
		var (
			e  QuizEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.LessonID, &e.Score, &e.Total, &e.Passed); err != nil {
			return err
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	return out, nil
}
