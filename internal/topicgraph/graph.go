package topicgraph

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Graph holds the topic catalog with precomputed indices. It is never
// mutated after Load returns.
type Graph struct {
	topics          []Topic
	byID            map[string]*Topic
	byConstellation map[string][]Topic
	constellations  []string
	root            string
	dangling        []Edge
}

// g is the package-level graph singleton, set by init() in seed.go.
var g *Graph

type catalogFile struct {
	Root   string  `yaml:"root"`
	Topics []Topic `yaml:"topics"`
}

// Load parses a YAML catalog and builds a graph from it.
// Duplicate ids, a missing root or an unknown difficulty fail the load.
// Dangling adjacency ids are tolerated and reported by DanglingEdges.
func Load(data []byte) (*Graph, error) {
	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse topic catalog: %w", err)
	}
	if err := validateTopics(cat.Topics, cat.Root); err != nil {
		return nil, err
	}
	return buildGraph(cat.Topics, cat.Root), nil
}

func buildGraph(topics []Topic, root string) *Graph {
	gr := &Graph{
		topics:          topics,
		byID:            make(map[string]*Topic, len(topics)),
		byConstellation: make(map[string][]Topic),
		root:            root,
	}

	for i := range gr.topics {
		gr.byID[gr.topics[i].ID] = &gr.topics[i]
	}

	// Constellations keep first-seen catalog order.
	for _, t := range gr.topics {
		if _, ok := gr.byConstellation[t.Constellation]; !ok {
			gr.constellations = append(gr.constellations, t.Constellation)
		}
		gr.byConstellation[t.Constellation] = append(gr.byConstellation[t.Constellation], t)
	}

	gr.dangling = danglingEdges(gr.topics, gr.byID)
	return gr
}

func danglingEdges(topics []Topic, byID map[string]*Topic) []Edge {
	var out []Edge
	for _, t := range topics {
		for _, id := range t.ConnectedTopics {
			if _, ok := byID[id]; !ok {
				out = append(out, Edge{From: t.ID, To: id})
			}
		}
	}
	return out
}

// Topic returns the topic with the given id. A miss is reported with false.
func (gr *Graph) Topic(id string) (Topic, bool) {
	t, ok := gr.byID[id]
	if !ok {
		return Topic{}, false
	}
	return *t, true
}

// Has reports whether id names a topic in the graph.
func (gr *Graph) Has(id string) bool {
	_, ok := gr.byID[id]
	return ok
}

// ConnectedTopics resolves the adjacency list of id, in declaration order.
// Ids that do not resolve are dropped. Unknown id yields nil.
func (gr *Graph) ConnectedTopics(id string) []Topic {
	t, ok := gr.byID[id]
	if !ok {
		return nil
	}
	result := make([]Topic, 0, len(t.ConnectedTopics))
	for _, cid := range t.ConnectedTopics {
		if c, ok := gr.byID[cid]; ok {
			result = append(result, *c)
		}
	}
	return result
}

// All returns every topic in catalog order.
func (gr *Graph) All() []Topic {
	return slices.Clone(gr.topics)
}

// Count returns the number of topics in the graph.
func (gr *Graph) Count() int {
	return len(gr.topics)
}

// Root returns the id of the topic that starts unlocked.
func (gr *Graph) Root() string {
	return gr.root
}

// ByConstellation returns the topics of one constellation in catalog order.
func (gr *Graph) ByConstellation(name string) []Topic {
	return slices.Clone(gr.byConstellation[name])
}

// Constellations returns constellation labels in first-seen catalog order.
func (gr *Graph) Constellations() []string {
	return slices.Clone(gr.constellations)
}

// DanglingEdges returns adjacency entries that point at unknown ids.
func (gr *Graph) DanglingEdges() []Edge {
	return slices.Clone(gr.dangling)
}

// Validate re-runs the load-time structural checks.
func (gr *Graph) Validate() error {
	return validateTopics(gr.topics, gr.root)
}

// Default returns the graph built from the embedded catalog.
func Default() *Graph {
	return g
}

// GetTopic returns a topic from the embedded catalog.
func GetTopic(id string) (Topic, bool) {
	return g.Topic(id)
}

// ConnectedTopics resolves adjacency against the embedded catalog.
func ConnectedTopics(id string) []Topic {
	return g.ConnectedTopics(id)
}

// AllTopics returns every topic of the embedded catalog.
func AllTopics() []Topic {
	return g.All()
}

// Count returns the number of topics in the embedded catalog.
func Count() int {
	return g.Count()
}

// Root returns the root id of the embedded catalog.
func Root() string {
	return g.root
}

// Validate checks the embedded catalog for structural issues.
func Validate() error {
	return g.Validate()
}
