// Package content holds the static text served when generated explanations
// are unavailable: per-topic explanations, a generic explanation and the
// canned replies for keyword discovery.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// ErrDuplicateKey is returned when a lookup table is built with the same key
// twice.
var ErrDuplicateKey = errors.New("duplicate content key")

const (
	topicPlaceholder  = "{topic}"
	topicsPlaceholder = "{topics}"
)

// Explanation is a structured explanation of a topic.
type Explanation struct {
	Text      string   `yaml:"explanation" json:"explanation"`
	KeyPoints []string `yaml:"key_points" json:"key_points"`
	Examples  []string `yaml:"examples" json:"examples"`
}

// IsEmpty reports whether the explanation carries no text at all.
func (e Explanation) IsEmpty() bool {
	return strings.TrimSpace(e.Text) == "" && len(e.KeyPoints) == 0 && len(e.Examples) == 0
}

// String renders the explanation as plain sectioned text.
func (e Explanation) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(e.Text))
	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n\n%s:", title)
		for _, it := range items {
			fmt.Fprintf(&b, "\n- %s", it)
		}
	}
	writeList("Key points", e.KeyPoints)
	writeList("Examples", e.Examples)
	return b.String()
}

func (e Explanation) withTopic(name string) Explanation {
	sub := func(s string) string { return strings.ReplaceAll(s, topicPlaceholder, name) }
	return Explanation{
		Text:      sub(e.Text),
		KeyPoints: lo.Map(e.KeyPoints, func(s string, _ int) string { return sub(s) }),
		Examples:  lo.Map(e.Examples, func(s string, _ int) string { return sub(s) }),
	}
}

type fileEntry struct {
	Topic       string `yaml:"topic"`
	Explanation `yaml:",inline"`
}

type file struct {
	Generic   Explanation `yaml:"generic"`
	Discovery struct {
		Matched string `yaml:"matched"`
		NoMatch string `yaml:"no_match"`
	} `yaml:"discovery"`
	Explanations []fileEntry `yaml:"explanations"`
}

// Library serves fallback text. It is immutable after Load.
type Library struct {
	explanations *Table[Explanation]
	generic      Explanation
	matched      string
	noMatch      string
}

// Load parses a fallback content document.
func Load(data []byte) (*Library, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if f.Generic.IsEmpty() {
		return nil, errors.New("content: generic explanation is required")
	}

	keys := make([]string, len(f.Explanations))
	values := make([]Explanation, len(f.Explanations))
	for i, e := range f.Explanations {
		keys[i] = e.Topic
		values[i] = e.Explanation
	}
	table, err := NewTable(keys, values)
	if err != nil {
		return nil, fmt.Errorf("content explanations: %w", err)
	}

	return &Library{
		explanations: table,
		generic:      f.Generic,
		matched:      f.Discovery.Matched,
		noMatch:      f.Discovery.NoMatch,
	}, nil
}

// Default returns the embedded library. It panics if the embedded document is
// invalid, which is a build defect.
func Default() *Library {
	l, err := Load(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded fallback: %v", err))
	}
	return l
}

// Explanation returns the authored explanation for a topic name.
func (l *Library) Explanation(topicName string) (Explanation, bool) {
	return l.explanations.Get(topicName)
}

// Fallback returns the authored explanation for topicName, or the generic
// explanation with the name filled in.
func (l *Library) Fallback(topicName string) Explanation {
	if e, ok := l.Explanation(topicName); ok {
		return e
	}
	return l.generic.withTopic(topicName)
}

// DiscoveryReply is the canned response to a query that matched topicNames.
// With no names it returns the no-match hint.
func (l *Library) DiscoveryReply(topicNames []string) string {
	if len(topicNames) == 0 {
		return l.noMatch
	}
	return strings.ReplaceAll(l.matched, topicsPlaceholder, strings.Join(topicNames, ", "))
}

// Topics lists the topic names that have authored explanations.
func (l *Library) Topics() []string {
	return l.explanations.Keys()
}
