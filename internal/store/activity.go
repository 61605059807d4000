package store

import (
	"context"
	"fmt"
	"sort"
)

// RecentActivity reads up to limit events from each lesson-scoped table and
// merges them by global sequence, newest first.
func (r *eventRepo) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	opts := QueryOpts{Limit: limit}

	runs, err := r.QueryRunEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	quizzes, err := r.QueryQuizEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	lessons, err := r.QueryLessonEvents(ctx, opts)
	if err != nil {
		return nil, err
	}

	out := make([]Activity, 0, len(runs)+len(quizzes)+len(lessons))
	for _, e := range runs {
		summary := fmt.Sprintf("Ran %s code in %dms", e.Difficulty, e.DurationMs)
		if e.Failed {
			summary = fmt.Sprintf("Ran %s code: %s", e.Difficulty, e.ErrorMessage)
		}
		out = append(out, Activity{
			Kind: ActivityRun, Sequence: e.Sequence, Timestamp: e.Timestamp,
			LessonID: e.LessonID, Summary: summary,
		})
	}
	for _, e := range quizzes {
		out = append(out, Activity{
			Kind: ActivityQuiz, Sequence: e.Sequence, Timestamp: e.Timestamp,
			LessonID: e.LessonID, Summary: fmt.Sprintf("Quiz score %d/%d", e.Score, e.Total),
		})
	}
	for _, e := range lessons {
		summary := "Completed lesson"
		if e.Action == ActionProgressReset {
			summary = "Reset all progress"
		}
		out = append(out, Activity{
			Kind: ActivityLesson, Sequence: e.Sequence, Timestamp: e.Timestamp,
			LessonID: e.LessonID, Summary: summary,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
