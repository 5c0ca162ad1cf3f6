package explain

import (
	"errors"

	"github.com/abhisek/mathgalaxy/internal/content"
)

// ErrUnavailable is returned when text generation could not produce an
// answer: the health check failed, the call timed out, the breaker is open or the
// response was malformed.
var ErrUnavailable = errors.New("text generation unavailable")

// Mode selects the kind of text requested.
type Mode int

const (
	// ModeSnippet is a short reply to a discovery query.
	ModeSnippet Mode = iota
	// ModeFull is a full topic explanation.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeSnippet:
		return "snippet"
	case ModeFull:
		return "full"
	}
	return "unknown"
}

// Outcome classifies a generation attempt.
type Outcome int

const (
	OutcomeGenerated Outcome = iota
	OutcomeEmpty
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of one Generate call.
type Result struct {
	Outcome Outcome `json:"outcome"`

	// Text is the flat response text.
	Text string `json:"text"`

	// Sections is set when the response carried the structured
	// explanation/key points/examples payload.
	Sections *content.Explanation `json:"sections,omitempty"`

	Cached bool `json:"-"`
}

// Source says where user-facing text came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// TopicExplanation is what the user sees for a topic. It is never empty.
type TopicExplanation struct {
	TopicID   string
	TopicName string
	Body      content.Explanation
	Source    Source
	Outcome   Outcome
}

// Reply is the text shown after a discovery query. It is never empty.
type Reply struct {
	Text    string
	Source  Source
	Outcome Outcome
}
