package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathgalaxy/internal/content"
	"github.com/abhisek/mathgalaxy/internal/llm"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CheckTimeout = 50 * time.Millisecond
	cfg.Timeout = 50 * time.Millisecond
	return cfg
}

func slopeTopic(t *testing.T) topicgraph.Topic {
	t.Helper()
	topic, ok := topicgraph.GetTopic("slope")
	require.True(t, ok)
	return topic
}

func TestGenerate_NoProvider(t *testing.T) {
	svc := NewService(nil, testConfig())

	r, err := svc.Generate(context.Background(), "hi", ModeSnippet)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, OutcomeUnavailable, r.Outcome)
	assert.False(t, svc.Available())
}

func TestGenerate_HealthCheckFailureSkipsCall(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("never sent")})
	mock.SetHealth(&llm.ErrProviderUnavailable{Err: errors.New("connection refused")})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "hi", ModeSnippet)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, OutcomeUnavailable, r.Outcome)
	assert.Equal(t, 1, mock.HealthCheckCount())
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "hi", ModeSnippet)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, OutcomeUnavailable, r.Outcome)
}

func TestGenerate_TimeoutIsUnavailable(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("late"), Delay: time.Second})
	svc := NewService(mock, testConfig())

	start := time.Now()
	r, err := svc.Generate(context.Background(), "hi", ModeSnippet)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, OutcomeUnavailable, r.Outcome)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestGenerate_EmptyIsDistinctFromUnavailable(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("   ")},
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"","key_points":[],"examples":[]}`)},
	)
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "hi", ModeSnippet)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, r.Outcome)

	r, err = svc.Generate(context.Background(), "explain", ModeFull)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, r.Outcome)
}

func TestGenerate_SnippetText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  Triangles have three sides.\n")})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "what is a triangle", ModeSnippet)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenerated, r.Outcome)
	assert.Equal(t, "Triangles have three sides.", r.Text)
	assert.Nil(t, r.Sections)

	require.Len(t, mock.Calls, 1)
	assert.Nil(t, mock.Calls[0].Schema)
	assert.Equal(t, DefaultConfig().SnippetMaxTokens, mock.Calls[0].MaxTokens)
}

func TestGenerate_SnippetSectioned(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("EXPLANATION:\nA circle is round.\nKEY POINTS:\n- area is pi r^2"),
	})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "circle", ModeSnippet)
	require.NoError(t, err)
	require.NotNil(t, r.Sections)
	assert.Equal(t, "A circle is round.", r.Sections.Text)
	assert.Equal(t, []string{"area is pi r^2"}, r.Sections.KeyPoints)
}

func TestGenerate_FullStructured(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":" Slope is rise over run. ","key_points":["m = dy/dx",""],"examples":["(0,0)-(2,4): 2"]}`),
	})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "slope", ModeFull)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenerated, r.Outcome)
	require.NotNil(t, r.Sections)
	assert.Equal(t, "Slope is rise over run.", r.Sections.Text)
	assert.Equal(t, []string{"m = dy/dx"}, r.Sections.KeyPoints)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, ExplanationSchema, mock.Calls[0].Schema)
}

func TestGenerate_FullRecoversSectionedInvalidResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{
			Content: json.RawMessage("EXPLANATION: Limits describe approach.\nEXAMPLES:\n- lim x->0 of x = 0"),
			Err:     errors.New("invalid JSON"),
		},
	})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "limits", ModeFull)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenerated, r.Outcome)
	require.NotNil(t, r.Sections)
	assert.Equal(t, []string{"lim x->0 of x = 0"}, r.Sections.Examples)
}

func TestGenerate_FullMalformedIsUnavailable(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: json.RawMessage(`{"explanation": 3}`), Err: errors.New("schema")},
	})
	svc := NewService(mock, testConfig())

	r, err := svc.Generate(context.Background(), "x", ModeFull)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, OutcomeUnavailable, r.Outcome)
}

func TestGenerate_CachesGeneratedOnly(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("   ")},
		llm.MockResponse{Content: json.RawMessage("Vectors have direction.")},
	)
	cache := NewMemoryCache()
	svc := NewService(mock, testConfig(), WithCache(cache))

	r, err := svc.Generate(context.Background(), "vectors", ModeSnippet)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, r.Outcome)
	assert.Equal(t, 0, cache.Len())

	r, err = svc.Generate(context.Background(), "vectors", ModeSnippet)
	require.NoError(t, err)
	assert.False(t, r.Cached)

	r, err = svc.Generate(context.Background(), "vectors", ModeSnippet)
	require.NoError(t, err)
	assert.True(t, r.Cached)
	assert.Equal(t, "Vectors have direction.", r.Text)
	assert.Equal(t, 2, mock.CallCount())
}

func TestExplainTopic_FallsBackToContent(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.SetHealth(&llm.ErrProviderUnavailable{})
	svc := NewService(mock, testConfig())
	topic := slopeTopic(t)

	got := svc.ExplainTopic(context.Background(), topic, nil)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, OutcomeUnavailable, got.Outcome)
	assert.Equal(t, content.Default().Fallback("Slope"), got.Body)
	assert.False(t, got.Body.IsEmpty())
}

func TestExplainTopic_Generated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"Slope is steepness.","key_points":["a"],"examples":["b"]}`),
	})
	svc := NewService(mock, testConfig())
	topic := slopeTopic(t)

	got := svc.ExplainTopic(context.Background(), topic, []string{"Linear Equations"})
	assert.Equal(t, SourceGenerated, got.Source)
	assert.Equal(t, "Slope is steepness.", got.Body.Text)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Related topics: Linear Equations")
}

func TestExplainTopic_GenericFallback(t *testing.T) {
	svc := NewService(nil, testConfig())
	topic := topicgraph.Topic{ID: "made-up", Name: "Made Up Topic"}

	got := svc.ExplainTopic(context.Background(), topic, nil)
	assert.Equal(t, SourceFallback, got.Source)
	assert.True(t, strings.HasPrefix(got.Body.Text, "Made Up Topic"))
}

func TestSnippet_Fallbacks(t *testing.T) {
	svc := NewService(nil, testConfig())
	lib := content.Default()

	tri, _ := topicgraph.GetTopic("triangles")
	got := svc.Snippet(context.Background(), "pythagorean theorem", []topicgraph.Topic{tri})
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, lib.DiscoveryReply([]string{"Triangles"}), got.Text)

	got = svc.Snippet(context.Background(), "zzz", nil)
	assert.Equal(t, lib.DiscoveryReply(nil), got.Text)
}

func TestSnippet_Generated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Right triangles obey a^2 + b^2 = c^2.")})
	svc := NewService(mock, testConfig())

	got := svc.Snippet(context.Background(), "pythagorean theorem", nil)
	assert.Equal(t, SourceGenerated, got.Source)
	assert.Equal(t, "Right triangles obey a^2 + b^2 = c^2.", got.Text)
}
