// Package unlock decides which topics are unlocked and applies quiz results
// to a progress record. Everything here is pure: no I/O, no shared state.
package unlock

import (
	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/samber/lo"
)

// PassThreshold is the minimum score that counts as a pass.
const PassThreshold = 60

// MaxScore is the top of the score scale.
const MaxScore = 100

// Passed reports whether score meets the pass threshold.
func Passed(score int) bool {
	return score >= PassThreshold
}

// NodeView is a topic with its derived state for one progress record.
type NodeView struct {
	Topic    topicgraph.Topic
	Unlocked bool
	Captured bool
}

// Engine evaluates unlock and capture rules against a topic graph.
type Engine struct {
	graph *topicgraph.Graph
}

// New returns an Engine for g.
func New(g *topicgraph.Graph) *Engine {
	return &Engine{graph: g}
}

// Graph returns the engine's topic graph.
func (e *Engine) Graph() *topicgraph.Graph {
	return e.graph
}

// ShouldUnlock reports whether topicID is unlocked under rec.
//
// A topic in rec.UnlockedTopics stays unlocked. Otherwise it is unlocked when
// any id in its own adjacency list has been captured; the neighbour does not
// have to list it back. Unknown ids are never unlocked.
func (e *Engine) ShouldUnlock(topicID string, rec progress.Record) bool {
	if lo.Contains(rec.UnlockedTopics, topicID) {
		return true
	}
	t, ok := e.graph.Topic(topicID)
	if !ok {
		return false
	}
	return lo.SomeBy(t.ConnectedTopics, func(id string) bool {
		return lo.Contains(rec.CapturedTopics, id)
	})
}

// RecordQuizResult applies one quiz submission to rec and returns the new
// record. rec itself is not modified.
//
// The attempt count grows by one, the best score only ever rises and a pass
// captures the topic. Captures are never undone. The pass flag is trusted as
// given; callers derive it with Passed. Scores are clamped to 0..100 and an
// unknown topic id leaves the record unchanged.
func (e *Engine) RecordQuizResult(topicID string, score int, passed bool, rec progress.Record) progress.Record {
	out := rec.Clone()
	if !e.graph.Has(topicID) {
		return out
	}
	score = clampScore(score)

	out.QuizAttempts[topicID]++
	if best, ok := out.QuizScores[topicID]; !ok || score > best {
		out.QuizScores[topicID] = score
	}
	if passed && !lo.Contains(out.CapturedTopics, topicID) {
		out.CapturedTopics = append(out.CapturedTopics, topicID)
	}

	out.CompletionRate = progress.CompletionRate(len(lo.Uniq(out.CapturedTopics)), e.graph.Count())
	return out
}

// Recompute derives the view of every topic, in catalog order.
func (e *Engine) Recompute(rec progress.Record) []NodeView {
	topics := e.graph.All()
	views := make([]NodeView, 0, len(topics))
	for _, t := range topics {
		views = append(views, NodeView{
			Topic:    t,
			Captured: lo.Contains(rec.CapturedTopics, t.ID),
			Unlocked: e.ShouldUnlock(t.ID, rec),
		})
	}
	return views
}

// View derives the state of a single topic. The bool is false for unknown ids.
func (e *Engine) View(topicID string, rec progress.Record) (NodeView, bool) {
	t, ok := e.graph.Topic(topicID)
	if !ok {
		return NodeView{}, false
	}
	return NodeView{
		Topic:    t,
		Captured: lo.Contains(rec.CapturedTopics, topicID),
		Unlocked: e.ShouldUnlock(topicID, rec),
	}, true
}

// NewlyUnlocked returns ids that are unlocked in after but not in before.
func NewlyUnlocked(before, after []NodeView) []string {
	was := make(map[string]bool, len(before))
	for _, v := range before {
		if v.Unlocked {
			was[v.Topic.ID] = true
		}
	}
	var out []string
	for _, v := range after {
		if v.Unlocked && !was[v.Topic.ID] {
			out = append(out, v.Topic.ID)
		}
	}
	return out
}

// Unlocked returns the ids of unlocked views.
func Unlocked(views []NodeView) []string {
	return lo.FilterMap(views, func(v NodeView, _ int) (string, bool) {
		return v.Topic.ID, v.Unlocked
	})
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	}
	return score
}
