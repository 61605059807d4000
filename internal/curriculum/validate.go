package curriculum

import (
	"errors"
	"fmt"
)

// validateLessons checks structural invariants the schema cannot express:
// IDs run densely from 1, every level carries a task, quiz answers point at
// real options, and identifiers are unique. Lessons must be sorted by ID.
func validateLessons(lessons []Lesson) error {
	var errs []error
	taskIDs := make(map[string]int)

	for i, l := range lessons {
		if l.ID != i+1 {
			errs = append(errs, fmt.Errorf("lesson %d: ids must be contiguous from 1, expected %d", l.ID, i+1))
		}

		for _, d := range Difficulties() {
			lc := l.Level(d)
			if lc.Task.ID == "" {
				errs = append(errs, fmt.Errorf("lesson %d %s: task id is empty", l.ID, d))
				continue
			}
			if prev, ok := taskIDs[lc.Task.ID]; ok {
				errs = append(errs, fmt.Errorf("lesson %d %s: task id %q already used by lesson %d", l.ID, d, lc.Task.ID, prev))
			}
			taskIDs[lc.Task.ID] = l.ID
		}

		qids := make(map[string]bool, len(l.Quiz))
		for _, q := range l.Quiz {
			if qids[q.ID] {
				errs = append(errs, fmt.Errorf("lesson %d: duplicate quiz question id %q", l.ID, q.ID))
			}
			qids[q.ID] = true
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				errs = append(errs, fmt.Errorf("lesson %d question %s: correct index %d out of range [0,%d)", l.ID, q.ID, q.CorrectIndex, len(q.Options)))
			}
		}

		for _, r := range l.Resources {
			switch r.Kind {
			case KindVideo, KindDoc, KindBlog:
			default:
				errs = append(errs, fmt.Errorf("lesson %d resource %q: unknown kind %q", l.ID, r.Title, r.Kind))
			}
		}
	}

	return errors.Join(errs...)
}
