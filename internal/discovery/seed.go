package discovery

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordsYAML []byte

var defaultMatcher *Matcher

func init() {
	entries, err := ParseEntries(keywordsYAML)
	if err != nil {
		panic(fmt.Sprintf("discovery: embedded keyword table: %v", err))
	}
	defaultMatcher = NewMatcher(entries)
}

// ParseEntries decodes a YAML keyword table.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}
	return entries, nil
}

// Default returns the matcher for the embedded keyword table.
func Default() *Matcher {
	return defaultMatcher
}

// DefaultEntries returns the embedded keyword table rows.
func DefaultEntries() []Entry {
	entries, _ := ParseEntries(keywordsYAML)
	return entries
}
