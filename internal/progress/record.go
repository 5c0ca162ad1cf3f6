package progress

import (
	"maps"
	"slices"

	"github.com/samber/lo"
)

// DefaultKey is the well-known key the record is persisted under.
const DefaultKey = "galaxy-progress"

// Record is the single persisted unit of learner progress. Set-valued fields
// hold no duplicates and their order carries no meaning.
type Record struct {
	CapturedTopics []string       `json:"capturedTopics"`
	UnlockedTopics []string       `json:"unlockedTopics"`
	QuizAttempts   map[string]int `json:"quizAttempts"`
	QuizScores     map[string]int `json:"quizScores"`
	LastActivity   int64          `json:"lastActivity"`
	CompletionRate float64        `json:"completionRate"`
}

// Default returns the first-run record: only root is unlocked.
func Default(root string) Record {
	r := Record{
		CapturedTopics: []string{},
		UnlockedTopics: []string{},
		QuizAttempts:   map[string]int{},
		QuizScores:     map[string]int{},
	}
	if root != "" {
		r.UnlockedTopics = append(r.UnlockedTopics, root)
	}
	return r
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.CapturedTopics = slices.Clone(r.CapturedTopics)
	out.UnlockedTopics = slices.Clone(r.UnlockedTopics)
	out.QuizAttempts = maps.Clone(r.QuizAttempts)
	out.QuizScores = maps.Clone(r.QuizScores)
	if out.QuizAttempts == nil {
		out.QuizAttempts = map[string]int{}
	}
	if out.QuizScores == nil {
		out.QuizScores = map[string]int{}
	}
	return out
}

// IsCaptured reports whether id has been captured.
func (r Record) IsCaptured(id string) bool {
	return lo.Contains(r.CapturedTopics, id)
}

// IsExplicitlyUnlocked reports whether id is in the unlocked set.
// Neighbour-driven unlocks are computed by the unlock engine, not stored.
func (r Record) IsExplicitlyUnlocked(id string) bool {
	return lo.Contains(r.UnlockedTopics, id)
}

// BestScore returns the best recorded score for id and whether one exists.
func (r Record) BestScore(id string) (int, bool) {
	s, ok := r.QuizScores[id]
	return s, ok
}

// Attempts returns the number of recorded quiz submissions for id.
func (r Record) Attempts(id string) int {
	return r.QuizAttempts[id]
}

// CompletionRate returns captured/total as a percentage in [0, 100].
// A zero total yields 0.
func CompletionRate(captured, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(captured) / float64(total) * 100
	if rate > 100 {
		return 100
	}
	return rate
}

// Normalize returns a copy of r that satisfies the record invariants:
// sets are de-duplicated, maps are non-nil, root is unlocked and the
// completion rate matches the captured set against total.
func (r Record) Normalize(root string, total int) Record {
	out := r.Clone()
	out.CapturedTopics = lo.Uniq(lo.Compact(out.CapturedTopics))
	out.UnlockedTopics = lo.Uniq(lo.Compact(out.UnlockedTopics))
	if out.CapturedTopics == nil {
		out.CapturedTopics = []string{}
	}
	if root != "" && !lo.Contains(out.UnlockedTopics, root) {
		out.UnlockedTopics = append([]string{root}, out.UnlockedTopics...)
	}
	if out.UnlockedTopics == nil {
		out.UnlockedTopics = []string{}
	}
	out.CompletionRate = CompletionRate(len(out.CapturedTopics), total)
	return out
}
