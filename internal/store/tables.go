package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableRecords      = "records"
	tableQuizEvents   = "quiz_events"
	tableDiscovery    = "discovery_events"
	tableLLMRequests  = "llm_request_events"
	columnID          = "id"
	columnSequence    = "sequence"
	columnTimestamp   = "timestamp"
	columnSessionID   = "session_id"
	columnKey         = "key"
	columnValue       = "value"
	columnUpdatedAt   = "updated_at"
	columnTopicID     = "topic_id"
	columnPurpose     = "purpose"
	columnModel       = "model"
	columnInputTokens = "input_tokens"
)

// eventColumns are the columns every event table starts with: id, global
// sequence, epoch-ms timestamp and session id.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: columnID, Type: field.TypeInt, Increment: true},
		{Name: columnSequence, Type: field.TypeInt64, Unique: true},
		{Name: columnTimestamp, Type: field.TypeInt64},
		{Name: columnSessionID, Type: field.TypeString, Default: ""},
	}
}

func newEventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := append(eventColumns(), extra...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
}

var (
	recordsColumns = []*schema.Column{
		{Name: columnKey, Type: field.TypeString, Size: 128},
		{Name: columnValue, Type: field.TypeString, Size: 1 << 20},
		{Name: columnUpdatedAt, Type: field.TypeInt64},
	}
	// RecordsTable holds named JSON documents.
	RecordsTable = &schema.Table{
		Name:       tableRecords,
		Columns:    recordsColumns,
		PrimaryKey: []*schema.Column{recordsColumns[0]},
	}

	// QuizEventsTable holds one row per recorded quiz submission.
	QuizEventsTable = newEventTable(tableQuizEvents,
		&schema.Column{Name: columnTopicID, Type: field.TypeString},
		&schema.Column{Name: "score", Type: field.TypeInt},
		&schema.Column{Name: "passed", Type: field.TypeBool},
		&schema.Column{Name: "captured", Type: field.TypeBool, Default: false},
	)

	// DiscoveryEventsTable holds one row per query that matched topics.
	DiscoveryEventsTable = newEventTable(tableDiscovery,
		&schema.Column{Name: "query", Type: field.TypeString, Size: 4096},
		&schema.Column{Name: "matched", Type: field.TypeString, Size: 4096, Default: ""},
		&schema.Column{Name: "newly_unlocked", Type: field.TypeString, Size: 4096, Default: ""},
	)

	// LLMRequestEventsTable records every text-generation call.
	LLMRequestEventsTable = newEventTable(tableLLMRequests,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: columnModel, Type: field.TypeString},
		&schema.Column{Name: columnPurpose, Type: field.TypeString},
		&schema.Column{Name: columnInputTokens, Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: 4096, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	)

	// Tables lists every table managed by the store.
	Tables = []*schema.Table{
		RecordsTable,
		QuizEventsTable,
		DiscoveryEventsTable,
		LLMRequestEventsTable,
	}
)
