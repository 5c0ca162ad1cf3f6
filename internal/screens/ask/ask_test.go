package ask

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/abhisek/mathgalaxy/internal/screen"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/unlock"
)

type fakeService struct {
	graph   *topicgraph.Graph
	queries []string
	saveErr error
}

func (f *fakeService) Graph() *topicgraph.Graph { return f.graph }

func (f *fakeService) Discover(_ context.Context, q string) (galaxy.DiscoveryResult, error) {
	f.queries = append(f.queries, q)
	rec := progress.Default(f.graph.Root())
	res := galaxy.DiscoveryResult{Query: q}
	if strings.Contains(q, "slope") {
		res.Matched = []string{"slope"}
		res.NewlyUnlocked = []string{"slope"}
		rec.UnlockedTopics = append(rec.UnlockedTopics, "slope")
		res.Reply = explain.Reply{Text: "Slope is rise over run."}
	} else {
		res.Reply = explain.Reply{Text: "Nothing matched."}
	}
	res.Snapshot = galaxy.Snapshot{Record: rec, Nodes: unlock.New(f.graph).Recompute(rec)}
	return res, f.saveErr
}

func newTestAsk() (*AskScreen, *fakeService) {
	svc := &fakeService{graph: topicgraph.Default()}
	return New(svc), svc
}

func TestSubmit_EmptyQueryIgnored(t *testing.T) {
	a, svc := newTestAsk()

	_, cmd := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty query")
	}
	if len(svc.queries) != 0 {
		t.Error("service should not be called")
	}
}

func TestSubmit_ShowsDiscoveries(t *testing.T) {
	a, svc := newTestAsk()
	a.input.Model.SetValue("  what is slope  ")

	_, cmd := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a discovery command")
	}
	if !a.pending {
		t.Error("expected pending state")
	}

	_, next := a.Update(cmd())
	if svc.queries[0] != "what is slope" {
		t.Errorf("expected trimmed query, got %q", svc.queries[0])
	}
	if a.pending || a.result == nil {
		t.Fatal("expected a result")
	}
	if next == nil {
		t.Fatal("expected a snapshot broadcast")
	}
	snap, ok := next().(screen.SnapshotMsg)
	if !ok {
		t.Fatal("expected SnapshotMsg")
	}
	if v, _ := snap.Snapshot.Node("slope"); !v.Unlocked {
		t.Error("expected slope unlocked in the broadcast snapshot")
	}

	view := a.View(100, 40)
	for _, want := range []string{"Slope is rise over run.", "Topics found", "new!"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSubmit_StaleReplyIgnored(t *testing.T) {
	a, _ := newTestAsk()

	a.input.Model.SetValue("slope")
	_, first := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	a.input.Model.SetValue("zzz")
	_, second := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, cmd := a.Update(first())
	if cmd != nil || a.result != nil {
		t.Error("reply to the older query should be dropped")
	}

	a.Update(second())
	if a.result == nil || a.result.Query != "zzz" {
		t.Error("expected the latest reply")
	}
}

func TestSubmit_SaveErrorShown(t *testing.T) {
	a, svc := newTestAsk()
	svc.saveErr = errors.New("disk full")

	a.input.Model.SetValue("slope")
	_, cmd := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	a.Update(cmd())

	if !strings.Contains(a.View(100, 40), "disk full") {
		t.Error("expected save error in view")
	}
	if a.result == nil {
		t.Error("result should still be shown")
	}
}
