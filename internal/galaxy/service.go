// Package galaxy runs the map's control flow: a query or quiz result comes
// in, the matcher or unlock engine computes the topic delta, the progress
// manager persists it and the engine recomputes every node for display.
package galaxy

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/mathgalaxy/internal/discovery"
	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/abhisek/mathgalaxy/internal/store"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/unlock"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Reasons a quiz submission is not recorded.
const (
	ReasonUnknownTopic = "unknown topic"
	ReasonLocked       = "topic is locked"
)

// Deps are the collaborators of a Service. Events and Logger are optional.
type Deps struct {
	Graph     *topicgraph.Graph
	Matcher   *discovery.Matcher
	Progress  *progress.Manager
	Explainer *explain.Service
	Events    store.EventRepo
	Logger    logrus.FieldLogger
}

// Service is the entry point used by the CLI and the terminal UI. It is
// meant for a single user; concurrent writers are not coordinated.
type Service struct {
	graph     *topicgraph.Graph
	engine    *unlock.Engine
	matcher   *discovery.Matcher
	progress  *progress.Manager
	explainer *explain.Service
	events    store.EventRepo
	sessionID string
	log       logrus.FieldLogger
}

// New creates a Service. Each Service gets its own session id, stamped on
// the events it records.
func New(d Deps) *Service {
	log := d.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	sessionID := uuid.NewString()
	return &Service{
		graph:     d.Graph,
		engine:    unlock.New(d.Graph),
		matcher:   d.Matcher,
		progress:  d.Progress,
		explainer: d.Explainer,
		events:    d.Events,
		sessionID: sessionID,
		log:       log.WithField("session", sessionID),
	}
}

// SessionID returns the id stamped on this service's events.
func (s *Service) SessionID() string {
	return s.sessionID
}

// Graph returns the topic graph.
func (s *Service) Graph() *topicgraph.Graph {
	return s.graph
}

// Snapshot is the current record with the derived state of every topic.
type Snapshot struct {
	Record progress.Record
	Nodes  []unlock.NodeView
}

// Node returns the view of id from the snapshot.
func (sn Snapshot) Node(id string) (unlock.NodeView, bool) {
	return lo.Find(sn.Nodes, func(v unlock.NodeView) bool { return v.Topic.ID == id })
}

// UnlockedCount returns how many topics are unlocked, captured ones included.
func (sn Snapshot) UnlockedCount() int {
	return len(unlock.Unlocked(sn.Nodes))
}

// CapturedCount returns how many topics are captured.
func (sn Snapshot) CapturedCount() int {
	return lo.CountBy(sn.Nodes, func(v unlock.NodeView) bool { return v.Captured })
}

// Map loads progress and recomputes every node.
func (s *Service) Map(ctx context.Context) Snapshot {
	rec := s.progress.Load(ctx)
	return Snapshot{Record: rec, Nodes: s.engine.Recompute(rec)}
}

// DiscoveryResult is the outcome of a free-text query.
type DiscoveryResult struct {
	Query string

	// Matched are all topic ids the query hit, sorted.
	Matched []string

	// NewlyUnlocked are the matched ids that were neither unlocked nor
	// captured before the query.
	NewlyUnlocked []string

	Reply explain.Reply
	Snapshot
}

// Discover matches query against the keyword table, unlocks the matched
// topics and asks for a short reply. Matched ids unknown to the graph are
// dropped. A failed save is returned alongside a
// fully populated result so the caller can still show it.
func (s *Service) Discover(ctx context.Context, query string) (DiscoveryResult, error) {
	rec := s.progress.Load(ctx)
	matched := lo.Filter(s.matcher.Match(query), func(id string, _ int) bool {
		return s.graph.Has(id)
	})
	newly := discovery.NewlyUnlocked(matched, rec)

	var saveErr error
	if len(newly) > 0 {
		rec, saveErr = s.progress.Update(ctx, progress.Patch{
			UnlockedTopics: lo.Union(rec.UnlockedTopics, newly),
		})
		if saveErr != nil {
			saveErr = fmt.Errorf("discover: %w", saveErr)
		}
	}

	topics := lo.FilterMap(matched, func(id string, _ int) (topicgraph.Topic, bool) {
		return s.graph.Topic(id)
	})
	reply := s.explainer.Snippet(ctx, query, topics)

	s.appendDiscovery(ctx, store.DiscoveryEventData{
		SessionID:     s.sessionID,
		Query:         query,
		Matched:       matched,
		NewlyUnlocked: newly,
	})

	s.log.WithFields(logrus.Fields{
		"matched":  len(matched),
		"unlocked": len(newly),
		"reply":    string(reply.Source),
	}).Debug("discovery")

	return DiscoveryResult{
		Query:         query,
		Matched:       matched,
		NewlyUnlocked: newly,
		Reply:         reply,
		Snapshot:      Snapshot{Record: rec, Nodes: s.engine.Recompute(rec)},
	}, saveErr
}

// QuizResult is the outcome of a quiz submission.
type QuizResult struct {
	// Recorded is false when the submission was refused; Reason says why.
	Recorded bool
	Reason   string

	TopicID string
	Score   int
	Passed  bool

	// Captured is true when this submission captured the topic.
	Captured bool

	// NewlyUnlocked are topics that became unlocked through this capture.
	NewlyUnlocked []string

	BestScore int
	Attempts  int
	Snapshot
}

// SubmitQuiz records a quiz outcome for topicID. Submissions for unknown or
// locked topics are refused without error.
func (s *Service) SubmitQuiz(ctx context.Context, topicID string, score int, passed bool) (QuizResult, error) {
	rec := s.progress.Load(ctx)
	res := QuizResult{TopicID: topicID, Score: score, Passed: passed}

	view, ok := s.engine.View(topicID, rec)
	switch {
	case !ok:
		res.Reason = ReasonUnknownTopic
	case !view.Unlocked && !view.Captured:
		res.Reason = ReasonLocked
	}
	if res.Reason != "" {
		res.Snapshot = Snapshot{Record: rec, Nodes: s.engine.Recompute(rec)}
		return res, nil
	}

	before := s.engine.Recompute(rec)
	next := s.engine.RecordQuizResult(topicID, score, passed, rec)
	after := s.engine.Recompute(next)

	// Neighbour unlocks are derived, but they are written down too so they
	// survive catalog edits.
	newly := unlock.NewlyUnlocked(before, after)
	next.UnlockedTopics = lo.Union(next.UnlockedTopics, newly)

	saved, err := s.progress.Save(ctx, next)
	if err != nil {
		err = fmt.Errorf("submit quiz: %w", err)
	}

	res.Recorded = true
	res.Captured = passed && !rec.IsCaptured(topicID)
	res.NewlyUnlocked = newly
	res.BestScore, _ = saved.BestScore(topicID)
	res.Attempts = saved.Attempts(topicID)
	res.Snapshot = Snapshot{Record: saved, Nodes: after}

	s.appendQuiz(ctx, store.QuizEventData{
		SessionID: s.sessionID,
		TopicID:   topicID,
		Score:     score,
		Passed:    passed,
		Captured:  res.Captured,
	})

	s.log.WithFields(logrus.Fields{
		"topic":    topicID,
		"score":    score,
		"passed":   passed,
		"captured": res.Captured,
		"unlocked": len(newly),
	}).Info("quiz recorded")

	return res, err
}

// Explain returns an explanation of topicID. The bool is false for unknown
// ids.
func (s *Service) Explain(ctx context.Context, topicID string) (explain.TopicExplanation, bool) {
	t, ok := s.graph.Topic(topicID)
	if !ok {
		return explain.TopicExplanation{}, false
	}
	neighbours := lo.Map(s.graph.ConnectedTopics(topicID), func(n topicgraph.Topic, _ int) string {
		return n.Name
	})
	return s.explainer.ExplainTopic(ctx, t, neighbours), true
}

// Reset clears progress and quiz and discovery history.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.progress.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if s.events != nil {
		if err := s.events.ClearHistory(ctx); err != nil {
			return fmt.Errorf("reset history: %w", err)
		}
	}
	s.log.Info("progress reset")
	return nil
}

func (s *Service) appendDiscovery(ctx context.Context, data store.DiscoveryEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendDiscovery(ctx, data); err != nil {
		s.log.WithError(err).Warn("failed to log discovery event")
	}
}

func (s *Service) appendQuiz(ctx context.Context, data store.QuizEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendQuiz(ctx, data); err != nil {
		s.log.WithError(err).Warn("failed to log quiz event")
	}
}
