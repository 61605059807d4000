package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	Before   int64     // sequence < Before
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
	LessonID int       // only events for this lesson (0 = all)
}

// KVRepo stores opaque values under unique names.
type KVRepo interface {
	// Get returns the value stored under name. ok is false if absent.
	Get(ctx context.Context, name string) (value []byte, ok bool, err error)

	// Put stores value under name, replacing any previous value.
	Put(ctx context.Context, name string, value []byte) error

	// Delete removes name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}

// RunEventData captures one execution of learner code.
type RunEventData struct {
	RunID        string
	LessonID     int
	Difficulty   string
	TaskID       string
	CodeBytes    int
	OutputBytes  int
	DurationMs   int64
	Failed       bool
	ErrorMessage string
}

// RunEvent is a stored RunEventData.
type RunEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RunEventData
}

// QuizEventData captures a finished quiz.
type QuizEventData struct {
	LessonID int
	Score    int
	Total    int
	Passed   bool
}

// QuizEvent is a stored QuizEventData.
type QuizEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// Lesson event actions.
const (
	ActionLessonCompleted = "lesson_completed"
	ActionProgressReset   = "progress_reset"
)

// LessonEventData captures a change in lesson progress.
type LessonEventData struct {
	LessonID   int
	Action     string
	Difficulty string
}

// LessonEvent is a stored LessonEventData.
type LessonEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LessonEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// ActivityKind tags an entry of the merged activity timeline.
type ActivityKind string

const (
	ActivityRun    ActivityKind = "run"
	ActivityQuiz   ActivityKind = "quiz"
	ActivityLesson ActivityKind = "lesson"
)

// Activity is one line of the learner's history, newest first.
type Activity struct {
	Kind      ActivityKind
	Sequence  int64
	Timestamp time.Time
	LessonID  int
	Summary   string
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendRun(ctx context.Context, data RunEventData) error
	AppendQuiz(ctx context.Context, data QuizEventData) error
	AppendLesson(ctx context.Context, data LessonEventData) error
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryRunEvents(ctx context.Context, opts QueryOpts) ([]RunEvent, error)
	QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error)
	QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEvent, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// RecentActivity merges run, quiz and lesson events into one timeline.
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}
