package topicgraph

// Difficulty is an informational difficulty label. It plays no part in unlocking.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// AllDifficulties returns all difficulty labels in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{
		DifficultyBeginner,
		DifficultyIntermediate,
		DifficultyAdvanced,
	}
}

// Valid reports whether d is one of the known labels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Position is a point on the galaxy map. Rendering only.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Topic is an immutable node of the galaxy map.
type Topic struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Difficulty    Difficulty `yaml:"difficulty"`
	Constellation string     `yaml:"constellation"`
	Color         string     `yaml:"color"`
	Position      Position   `yaml:"position"`

	// ConnectedTopics is the ordered adjacency list. Edges may be one-way.
	ConnectedTopics []string `yaml:"connected"`
}

// Edge is a directed reference from one topic's adjacency list to another id.
type Edge struct {
	From string
	To   string
}

// ConstellationDisplayName returns a human-readable name for a constellation label.
func ConstellationDisplayName(c string) string {
	switch c {
	case "algebra":
		return "Algebra"
	case "geometry":
		return "Geometry"
	case "trigonometry":
		return "Trigonometry"
	case "calculus":
		return "Calculus"
	case "statistics":
		return "Statistics & Probability"
	case "linear-algebra":
		return "Linear Algebra"
	default:
		return c
	}
}
