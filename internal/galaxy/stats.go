package galaxy

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/mathgalaxy/internal/store"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
)

// TopicStats is per-topic quiz progress.
type TopicStats struct {
	Topic     topicgraph.Topic
	Attempts  int
	BestScore int
	Captured  bool
}

// Stats summarizes progress and recent history.
type Stats struct {
	Snapshot
	Total           int
	Topics          []TopicStats
	RecentQuizzes   []store.QuizEvent
	RecentDiscovery []store.DiscoveryEvent
}

// ConstellationStats counts captured topics per constellation.
type ConstellationStats struct {
	Name     string
	Captured int
	Total    int
}

// Stats returns progress with the most recent limit quiz and discovery
// events. History is empty when no event repo is configured.
func (s *Service) Stats(ctx context.Context, limit int) (Stats, error) {
	snap := s.Map(ctx)
	out := Stats{Snapshot: snap, Total: s.graph.Count()}

	for _, v := range snap.Nodes {
		attempts := snap.Record.Attempts(v.Topic.ID)
		if attempts == 0 && !v.Captured {
			continue
		}
		best, _ := snap.Record.BestScore(v.Topic.ID)
		out.Topics = append(out.Topics, TopicStats{
			Topic:     v.Topic,
			Attempts:  attempts,
			BestScore: best,
			Captured:  v.Captured,
		})
	}
	sort.SliceStable(out.Topics, func(i, j int) bool {
		return out.Topics[i].BestScore > out.Topics[j].BestScore
	})

	if s.events == nil {
		return out, nil
	}
	var err error
	out.RecentQuizzes, err = s.events.QueryQuizEvents(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return out, fmt.Errorf("query quiz history: %w", err)
	}
	out.RecentDiscovery, err = s.events.QueryDiscoveryEvents(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return out, fmt.Errorf("query discovery history: %w", err)
	}
	return out, nil
}

// Constellations counts captures per constellation, in catalog order.
func (sn Snapshot) Constellations(g *topicgraph.Graph) []ConstellationStats {
	out := make([]ConstellationStats, 0, len(g.Constellations()))
	for _, name := range g.Constellations() {
		cs := ConstellationStats{Name: name}
		for _, t := range g.ByConstellation(name) {
			cs.Total++
			if sn.Record.IsCaptured(t.ID) {
				cs.Captured++
			}
		}
		out = append(out, cs)
	}
	return out
}
