// Package discovery maps free-text questions onto topic ids with a fixed
// keyword table. Matching is plain substring lookup with no ranking.
package discovery

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/samber/lo"
)

// minTokenLen is the length in characters a query token must exceed to take part in the
// fallback pass.
const minTokenLen = 3

// Entry is one row of a keyword table.
type Entry struct {
	Keyword string   `yaml:"keyword"`
	Topics  []string `yaml:"topics"`
}

// phrase is a normalized keyword and the set of topic ids it maps to.
type phrase struct {
	text      string
	firstWord string
	topics    []string
}

// Matcher is an immutable keyword multimap. It is safe for concurrent use.
type Matcher struct {
	phrases []phrase
}

// NewMatcher builds a matcher from entries. Keywords are lower-cased and
// trimmed; repeated keywords merge their topic ids. Empty keywords are
// ignored.
func NewMatcher(entries []Entry) *Matcher {
	index := make(map[string]int)
	var phrases []phrase
	for _, e := range entries {
		kw := normalize(e.Keyword)
		if kw == "" {
			continue
		}
		ids := lo.Compact(lo.Map(e.Topics, func(id string, _ int) string {
			return strings.TrimSpace(id)
		}))
		if i, ok := index[kw]; ok {
			phrases[i].topics = lo.Union(phrases[i].topics, ids)
			continue
		}
		index[kw] = len(phrases)
		phrases = append(phrases, phrase{
			text:      kw,
			firstWord: strings.Fields(kw)[0],
			topics:    lo.Uniq(ids),
		})
	}
	return &Matcher{phrases: phrases}
}

// Match returns the sorted set of topic ids that query points at.
//
// Every keyword the normalized query contains contributes its ids. Only when
// that finds nothing, each query token longer than three characters is tried
// against every keyword: a keyword matches if it contains the token or if its
// first word occurs inside the token. No match is a valid, empty result.
func (m *Matcher) Match(query string) []string {
	q := normalize(query)
	if q == "" {
		return []string{}
	}

	found := make(map[string]struct{})
	for _, p := range m.phrases {
		if strings.Contains(q, p.text) {
			addAll(found, p.topics)
		}
	}

	if len(found) == 0 {
		tokens := lo.Filter(strings.Fields(q), func(tok string, _ int) bool {
			return utf8.RuneCountInString(tok) > minTokenLen
		})
		for _, p := range m.phrases {
			for _, tok := range tokens {
				if strings.Contains(p.text, tok) || strings.Contains(tok, p.firstWord) {
					addAll(found, p.topics)
					break
				}
			}
		}
	}

	out := lo.Keys(found)
	sort.Strings(out)
	return out
}

// Keywords returns every keyword phrase, sorted.
func (m *Matcher) Keywords() []string {
	out := lo.Map(m.phrases, func(p phrase, _ int) string { return p.text })
	sort.Strings(out)
	return out
}

// Topics returns the ids a keyword maps to, or nil if it is not in the table.
func (m *Matcher) Topics(keyword string) []string {
	kw := normalize(keyword)
	for _, p := range m.phrases {
		if p.text == kw {
			out := append([]string{}, p.topics...)
			sort.Strings(out)
			return out
		}
	}
	return nil
}

// NewlyUnlocked filters matched down to ids rec does not already list as
// unlocked or captured. Order is preserved.
func NewlyUnlocked(matched []string, rec progress.Record) []string {
	return lo.Filter(matched, func(id string, _ int) bool {
		return !lo.Contains(rec.UnlockedTopics, id) && !lo.Contains(rec.CapturedTopics, id)
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func addAll(set map[string]struct{}, ids []string) {
	for _, id := range ids {
		set[id] = struct{}{}
	}
}
