package explain

import (
	"regexp"
	"strings"

	"github.com/abhisek/mathgalaxy/internal/content"
)

type section int

const (
	sectionNone section = iota
	sectionExplanation
	sectionKeyPoints
	sectionExamples
)

// headerRe matches a section header line, optionally decorated with markdown
// ("## Key Points", "**EXAMPLES:**"). Text after the colon stays on the line.
var headerRe = regexp.MustCompile(`(?i)^[#*\s]*(explanation|key[ _-]?points|examples?)[*\s]*:?[*\s]*(.*)$`)

// bulletRe matches list markers: "-", "*", "•", "1.", "2)".
var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// ParseSections parses text laid out as EXPLANATION / KEY POINTS / EXAMPLES
// sections. It reports false unless an explanation section with text is
// present; callers then treat the text as a flat string.
func ParseSections(text string) (content.Explanation, bool) {
	var (
		out     content.Explanation
		current = sectionNone
		body    []string
		seen    bool
	)

	appendItem := func(list []string, line string) []string {
		if m := bulletRe.FindStringIndex(line); m != nil {
			return append(list, strings.TrimSpace(line[m[1]:]))
		}
		if len(list) == 0 {
			return append(list, line)
		}
		list[len(list)-1] += " " + line
		return list
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := headerRe.FindStringSubmatch(line); m != nil && isHeader(line, m[1]) {
			word := strings.ToLower(m[1])
			switch {
			case strings.HasPrefix(word, "expl"):
				current = sectionExplanation
				seen = true
			case strings.HasPrefix(word, "key"):
				current = sectionKeyPoints
			default:
				current = sectionExamples
			}
			line = strings.TrimSpace(m[2])
			if line == "" {
				continue
			}
		}

		if line == "" {
			if current == sectionExplanation && len(body) > 0 {
				body = append(body, "")
			}
			continue
		}

		switch current {
		case sectionExplanation:
			body = append(body, line)
		case sectionKeyPoints:
			out.KeyPoints = appendItem(out.KeyPoints, line)
		case sectionExamples:
			out.Examples = appendItem(out.Examples, line)
		}
	}

	out.Text = strings.TrimSpace(strings.Join(body, "\n"))
	if !seen || out.Text == "" {
		return content.Explanation{}, false
	}
	return out, true
}

// isHeader rejects prose that merely starts with a section word, such as
// "Examples of this include ...". A header either ends the line or is
// followed by a colon.
func isHeader(line, word string) bool {
	rest := strings.TrimLeft(line, "#* \t")
	rest = strings.TrimSpace(rest[len(word):])
	rest = strings.TrimLeft(rest, "* \t")
	return rest == "" || strings.HasPrefix(rest, ":")
}
