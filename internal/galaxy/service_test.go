package galaxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/mathgalaxy/internal/discovery"
	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/llm"
	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/abhisek/mathgalaxy/internal/store"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	store *store.Store
	mgr   *progress.Manager
}

func newFixture(t *testing.T, provider llm.Provider) fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:galaxy_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	g := topicgraph.Default()
	mgr := progress.NewManager(st.RecordRepo(), progress.Options{
		RootID:      g.Root(),
		TotalTopics: g.Count(),
	})
	cfg := explain.DefaultConfig()
	svc := New(Deps{
		Graph:     g,
		Matcher:   discovery.Default(),
		Progress:  mgr,
		Explainer: explain.NewService(provider, cfg),
		Events:    st.EventRepo(),
	})
	return fixture{svc: svc, store: st, mgr: mgr}
}

func TestMap_FirstRun(t *testing.T) {
	f := newFixture(t, nil)
	snap := f.svc.Map(context.Background())

	assert.Len(t, snap.Nodes, topicgraph.Count())
	assert.Equal(t, 1, snap.UnlockedCount())
	assert.Zero(t, snap.CapturedCount())

	root, ok := snap.Node("quadratic-equations")
	require.True(t, ok)
	assert.True(t, root.Unlocked)
}

func TestSubmitQuiz_CaptureUnlocksNeighbours(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 75, true)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.True(t, res.Captured)
	assert.Equal(t, 75, res.BestScore)
	assert.Equal(t, 1, res.Attempts)
	assert.Contains(t, res.NewlyUnlocked, "quadratic-formula")
	assert.Contains(t, res.NewlyUnlocked, "factoring")

	// Persisted and visible on the next load.
	rec := f.mgr.Load(ctx)
	assert.Contains(t, rec.CapturedTopics, "quadratic-equations")
	assert.Contains(t, rec.UnlockedTopics, "quadratic-formula")

	snap := f.svc.Map(ctx)
	formula, _ := snap.Node("quadratic-formula")
	assert.True(t, formula.Unlocked)
	assert.False(t, formula.Captured)
	assert.Equal(t, 1, snap.CapturedCount())
	assert.Equal(t, 1+len(res.NewlyUnlocked), snap.UnlockedCount(), "captured topics count as unlocked")
}

func TestSubmitQuiz_FailedAttempt(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 80, false)
	require.NoError(t, err)
	res, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 50, false)
	require.NoError(t, err)

	assert.True(t, res.Recorded)
	assert.False(t, res.Captured)
	assert.Equal(t, 80, res.BestScore)
	assert.Equal(t, 2, res.Attempts)
	assert.Empty(t, res.NewlyUnlocked)
	assert.Empty(t, res.Record.CapturedTopics)
}

func TestSubmitQuiz_Refused(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.SubmitQuiz(ctx, "no-such-topic", 90, true)
	require.NoError(t, err)
	assert.False(t, res.Recorded)
	assert.Equal(t, ReasonUnknownTopic, res.Reason)

	res, err = f.svc.SubmitQuiz(ctx, "integrals", 90, true)
	require.NoError(t, err)
	assert.False(t, res.Recorded)
	assert.Equal(t, ReasonLocked, res.Reason)

	rec := f.mgr.Load(ctx)
	assert.Empty(t, rec.QuizAttempts)

	events, err := f.store.EventRepo().QueryQuizEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSubmitQuiz_RecapturingIsNotANewCapture(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 70, true)
	require.NoError(t, err)
	res, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 95, true)
	require.NoError(t, err)

	assert.False(t, res.Captured)
	assert.Equal(t, 95, res.BestScore)
	assert.Len(t, res.Record.CapturedTopics, 1)
}

func TestDiscover_UnlocksMatchedTopics(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.Discover(ctx, "What is the Pythagorean theorem?")
	require.NoError(t, err)
	assert.Contains(t, res.Matched, "triangles")
	assert.Contains(t, res.Matched, "geometry-basics")
	assert.ElementsMatch(t, res.Matched, res.NewlyUnlocked)
	assert.Equal(t, explain.SourceFallback, res.Reply.Source)
	assert.Contains(t, res.Reply.Text, "Triangles")

	tri, _ := res.Node("triangles")
	assert.True(t, tri.Unlocked)

	// Asking again reports nothing new.
	res, err = f.svc.Discover(ctx, "pythagorean theorem")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Matched)
	assert.Empty(t, res.NewlyUnlocked)

	events, err := f.store.EventRepo().QueryDiscoveryEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, f.svc.SessionID(), events[0].SessionID)
}

func TestDiscover_DropsUnknownTopicIDs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.svc.matcher = discovery.NewMatcher([]discovery.Entry{
		{Keyword: "ghost", Topics: []string{"no-such-topic", "triangles"}},
	})

	res, err := f.svc.Discover(ctx, "ghost topic")
	require.NoError(t, err)
	assert.Equal(t, []string{"triangles"}, res.Matched)
	assert.Equal(t, []string{"triangles"}, res.NewlyUnlocked)

	rec := f.mgr.Load(ctx)
	assert.NotContains(t, rec.UnlockedTopics, "no-such-topic")
	assert.Contains(t, rec.UnlockedTopics, "triangles")
}

func TestDiscover_NoMatch(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Discover(context.Background(), "zzz qqq")
	require.NoError(t, err)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.NewlyUnlocked)
	assert.NotEmpty(t, res.Reply.Text)
	assert.Equal(t, 1, res.UnlockedCount())
}

func TestDiscover_GeneratedReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Slope is rise over run.")})
	f := newFixture(t, mock)

	res, err := f.svc.Discover(context.Background(), "how steep is a line, slope?")
	require.NoError(t, err)
	assert.Equal(t, explain.SourceGenerated, res.Reply.Source)
	assert.Equal(t, "Slope is rise over run.", res.Reply.Text)
}

func TestExplain(t *testing.T) {
	f := newFixture(t, nil)

	got, ok := f.svc.Explain(context.Background(), "quadratic-equations")
	require.True(t, ok)
	assert.Equal(t, explain.SourceFallback, got.Source)
	assert.False(t, got.Body.IsEmpty())

	_, ok = f.svc.Explain(context.Background(), "nope")
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 90, true)
	require.NoError(t, err)
	_, err = f.svc.Discover(ctx, "slope")
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx))

	snap := f.svc.Map(ctx)
	assert.Equal(t, 1, snap.UnlockedCount())
	assert.Zero(t, snap.CapturedCount())

	stats, err := f.svc.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, stats.RecentQuizzes)
	assert.Empty(t, stats.RecentDiscovery)
}

func TestStats(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, "quadratic-equations", 90, true)
	require.NoError(t, err)
	_, err = f.svc.SubmitQuiz(ctx, "factoring", 40, false)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, topicgraph.Count(), stats.Total)
	require.Len(t, stats.Topics, 2)
	assert.Equal(t, "quadratic-equations", stats.Topics[0].Topic.ID)
	assert.True(t, stats.Topics[0].Captured)
	assert.Equal(t, 40, stats.Topics[1].BestScore)
	require.Len(t, stats.RecentQuizzes, 2)
	assert.Equal(t, "factoring", stats.RecentQuizzes[0].TopicID)

	var algebra ConstellationStats
	for _, c := range stats.Constellations(f.svc.Graph()) {
		if c.Name == "algebra" {
			algebra = c
		}
	}
	assert.Equal(t, 1, algebra.Captured)
	assert.Equal(t, 18, algebra.Total)
}

type failingRecords struct{}

var errDisk = errors.New("disk full")

func (failingRecords) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (failingRecords) Put(context.Context, string, []byte) error { return errDisk }
func (failingRecords) Delete(context.Context, string) error { return errDisk }

func TestSubmitQuiz_SaveFailureStillReturnsResult(t *testing.T) {
	g := topicgraph.Default()
	svc := New(Deps{
		Graph:     g,
		Matcher:   discovery.Default(),
		Progress:  progress.NewManager(failingRecords{}, progress.Options{RootID: g.Root(), TotalTopics: g.Count()}),
		Explainer: explain.NewService(nil, explain.DefaultConfig()),
	})

	res, err := svc.SubmitQuiz(context.Background(), "quadratic-equations", 90, true)
	assert.ErrorIs(t, err, errDisk)
	assert.True(t, res.Recorded)
	assert.True(t, res.Captured)
	assert.Contains(t, res.Record.CapturedTopics, "quadratic-equations")
}
