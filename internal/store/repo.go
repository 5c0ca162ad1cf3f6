package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RecordRepo stores named JSON documents.
type RecordRepo interface {
	// Get returns the document stored under key, or nil if none exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// QuizEventData captures one recorded quiz submission.
type QuizEventData struct {
	SessionID string
	TopicID   string
	Score     int
	Passed    bool
	Captured  bool // the submission captured the topic for the first time
}

// DiscoveryEventData captures one keyword discovery query.
type DiscoveryEventData struct {
	SessionID     string
	Query         string
	Matched       []string
	NewlyUnlocked []string
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

// QuizEvent is a stored quiz submission.
type QuizEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// DiscoveryEvent is a stored discovery query.
type DiscoveryEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	DiscoveryEventData
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
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

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendQuiz records a quiz submission event.
	AppendQuiz(ctx context.Context, data QuizEventData) error

	// AppendDiscovery records a keyword discovery event.
	AppendDiscovery(ctx context.Context, data DiscoveryEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryQuizEvents returns quiz events, newest first.
	QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error)

	// QueryDiscoveryEvents returns discovery events, newest first.
	QueryDiscoveryEvents(ctx context.Context, opts QueryOpts) ([]DiscoveryEvent, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM request event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// ClearHistory deletes quiz and discovery events. LLM events are kept.
	ClearHistory(ctx context.Context) error
}
