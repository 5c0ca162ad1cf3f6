package topicgraph

import (
	"fmt"
	"strings"
)

// validateTopics performs the load-time checks on a topic set.
// Returns a combined error describing all problems found, or nil if valid.
func validateTopics(topics []Topic, root string) error {
	var errs []string

	if len(topics) == 0 {
		errs = append(errs, "catalog has no topics")
	}

	idSet := make(map[string]bool, len(topics))
	for i, t := range topics {
		if strings.TrimSpace(t.ID) == "" {
			errs = append(errs, fmt.Sprintf("topic at index %d has an empty id", i))
			continue
		}
		if idSet[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", t.ID))
		}
		idSet[t.ID] = true
	}

	for _, t := range topics {
		if !t.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("topic %q has unknown difficulty %q", t.ID, t.Difficulty))
		}
		for _, id := range t.ConnectedTopics {
			if id == t.ID {
				errs = append(errs, fmt.Sprintf("topic %q lists itself as connected", t.ID))
			}
		}
	}

	switch {
	case root == "":
		errs = append(errs, "no root topic declared")
	case !idSet[root]:
		errs = append(errs, fmt.Sprintf("root topic %q is not in the catalog", root))
	}

	if len(errs) > 0 {
		return fmt.Errorf("topic graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
