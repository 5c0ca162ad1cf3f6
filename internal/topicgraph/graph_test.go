package topicgraph

import (
	"strings"
	"testing"
)

func TestGetTopic_Exists(t *testing.T) {
	tp, ok := GetTopic("quadratic-formula")
	if !ok {
		t.Fatal("expected quadratic-formula to exist")
	}
	if tp.Name != "The Quadratic Formula" {
		t.Errorf("got name %q, want %q", tp.Name, "The Quadratic Formula")
	}
	if tp.Difficulty != DifficultyIntermediate {
		t.Errorf("got difficulty %q, want %q", tp.Difficulty, DifficultyIntermediate)
	}
	if tp.Constellation != "algebra" {
		t.Errorf("got constellation %q, want algebra", tp.Constellation)
	}
}

func TestGetTopic_NotFound(t *testing.T) {
	tp, ok := GetTopic("nonexistent")
	if ok {
		t.Fatal("expected miss for nonexistent topic")
	}
	if tp.ID != "" {
		t.Errorf("expected zero Topic on miss, got %+v", tp)
	}
}

func TestAllTopics_Count(t *testing.T) {
	all := AllTopics()
	if len(all) != 48 {
		t.Errorf("got %d topics, want 48", len(all))
	}
	if Count() != len(all) {
		t.Errorf("Count() = %d, AllTopics() has %d", Count(), len(all))
	}
}

func TestAllTopics_ReturnsCopy(t *testing.T) {
	all := AllTopics()
	all[0].Name = "mutated"
	if AllTopics()[0].Name == "mutated" {
		t.Error("AllTopics exposed the internal slice")
	}
}

func TestRoot(t *testing.T) {
	if Root() != "quadratic-equations" {
		t.Errorf("Root() = %q, want quadratic-equations", Root())
	}
	if _, ok := GetTopic(Root()); !ok {
		t.Error("root topic does not resolve")
	}
}

func TestConnectedTopics_Order(t *testing.T) {
	got := ConnectedTopics("quadratic-formula")
	want := []string{"quadratic-equations", "discriminant", "complex-numbers"}
	if len(got) != len(want) {
		t.Fatalf("got %d connected topics, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("connected[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestConnectedTopics_Unknown(t *testing.T) {
	if got := ConnectedTopics("nonexistent"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestConstellations(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"algebra", 18},
		{"geometry", 11},
		{"trigonometry", 4},
		{"calculus", 7},
		{"statistics", 6},
		{"linear-algebra", 2},
	}
	gr := Default()
	total := 0
	for _, tt := range tests {
		got := gr.ByConstellation(tt.name)
		if len(got) != tt.want {
			t.Errorf("ByConstellation(%q): got %d, want %d", tt.name, len(got), tt.want)
		}
		total += len(got)
	}
	if total != gr.Count() {
		t.Errorf("constellations cover %d topics, graph has %d", total, gr.Count())
	}
	if cs := gr.Constellations(); len(cs) != len(tests) || cs[0] != "algebra" {
		t.Errorf("Constellations() = %v", cs)
	}
}

func TestEmbeddedCatalog_NoDanglingEdges(t *testing.T) {
	if d := Default().DanglingEdges(); len(d) != 0 {
		t.Errorf("embedded catalog has dangling edges: %v", d)
	}
}

func TestEmbeddedCatalog_EveryTopicReachable(t *testing.T) {
	gr := Default()
	captured := map[string]bool{gr.Root(): true}
	for changed := true; changed; {
		changed = false
		for _, tp := range gr.All() {
			if captured[tp.ID] {
				continue
			}
			for _, id := range tp.ConnectedTopics {
				if captured[id] {
					captured[tp.ID] = true
					changed = true
					break
				}
			}
		}
	}
	for _, tp := range gr.All() {
		if !captured[tp.ID] {
			t.Errorf("topic %q can never be unlocked from the root", tp.ID)
		}
	}
}

const testCatalog = `
root: a
topics:
  - id: a
    name: A
    difficulty: beginner
    constellation: one
    connected: [b, ghost]
  - id: b
    name: B
    difficulty: advanced
    constellation: two
    connected: []
  - id: c
    name: C
    difficulty: intermediate
    constellation: one
    connected: [a]
`

func TestLoad_DanglingEdgesTolerated(t *testing.T) {
	gr, err := Load([]byte(testCatalog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := gr.ConnectedTopics("a")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("ConnectedTopics(a) = %v, want [b]", got)
	}
	d := gr.DanglingEdges()
	if len(d) != 1 || d[0] != (Edge{From: "a", To: "ghost"}) {
		t.Errorf("DanglingEdges() = %v", d)
	}
	if err := gr.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoad_ConstellationOrder(t *testing.T) {
	gr, err := Load([]byte(testCatalog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cs := gr.Constellations()
	if len(cs) != 2 || cs[0] != "one" || cs[1] != "two" {
		t.Errorf("Constellations() = %v, want [one two]", cs)
	}
	one := gr.ByConstellation("one")
	if len(one) != 2 || one[0].ID != "a" || one[1].ID != "c" {
		t.Errorf("ByConstellation(one) = %v", one)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "duplicate id",
			yaml: `
root: a
topics:
  - {id: a, difficulty: beginner}
  - {id: a, difficulty: beginner}
`,
			wantErr: `duplicate topic ID: "a"`,
		},
		{
			name: "missing root",
			yaml: `
root: z
topics:
  - {id: a, difficulty: beginner}
`,
			wantErr: `root topic "z" is not in the catalog`,
		},
		{
			name: "no root declared",
			yaml: `
topics:
  - {id: a, difficulty: beginner}
`,
			wantErr: "no root topic declared",
		},
		{
			name: "bad difficulty",
			yaml: `
root: a
topics:
  - {id: a, difficulty: expert}
`,
			wantErr: `unknown difficulty "expert"`,
		},
		{
			name: "self loop",
			yaml: `
root: a
topics:
  - {id: a, difficulty: beginner, connected: [a]}
`,
			wantErr: "lists itself",
		},
		{
			name:    "malformed yaml",
			yaml:    "root: [",
			wantErr: "parse topic catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
