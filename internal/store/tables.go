package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	kvTable         = "kv_entries"
	runTable        = "run_events"
	quizTable       = "quiz_events"
	lessonTable     = "lesson_events"
	llmRequestTable = "llm_request_events"
)

// eventColumns returns the columns every event table starts with: an
// auto-increment id, the global sequence number and a unix-millisecond
// timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	return append(cols, extra...)
}

func eventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := eventColumns(extra...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_created_at", Columns: []*schema.Column{cols[2]}},
		},
	}
}

var (
	kvColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// KVTable holds opaque named values such as the progress document.
	KVTable = &schema.Table{
		Name:       kvTable,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	// RunEventsTable records every code execution.
	RunEventsTable = eventTable(runTable,
		&schema.Column{Name: "run_id", Type: field.TypeString},
		&schema.Column{Name: "lesson_id", Type: field.TypeInt},
		&schema.Column{Name: "difficulty", Type: field.TypeString},
		&schema.Column{Name: "task_id", Type: field.TypeString},
		&schema.Column{Name: "code_bytes", Type: field.TypeInt},
		&schema.Column{Name: "output_bytes", Type: field.TypeInt},
		&schema.Column{Name: "duration_ms", Type: field.TypeInt64},
		&schema.Column{Name: "failed", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)

	// QuizEventsTable records every finished quiz attempt.
	QuizEventsTable = eventTable(quizTable,
		&schema.Column{Name: "lesson_id", Type: field.TypeInt},
		&schema.Column{Name: "score", Type: field.TypeInt},
		&schema.Column{Name: "total", Type: field.TypeInt},
		&schema.Column{Name: "passed", Type: field.TypeBool},
	)

	// LessonEventsTable records lesson completions and progress resets.
	LessonEventsTable = eventTable(lessonTable,
		&schema.Column{Name: "lesson_id", Type: field.TypeInt},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "difficulty", Type: field.TypeString, Default: ""},
	)

	// LLMRequestEventsTable records every tutor request.
	LLMRequestEventsTable = eventTable(llmRequestTable,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		KVTable,
		RunEventsTable,
		QuizEventsTable,
		LessonEventsTable,
		LLMRequestEventsTable,
	}
)
