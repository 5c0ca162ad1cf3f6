package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathgalaxy/internal/topicgraph"
)

const snippetSystemPrompt = `You are a friendly guide on a map of mathematics topics. A learner typed a question and you reply with a short, encouraging teaser.`

const fullSystemPrompt = `You are a patient math tutor for high-school and early university students. You explain one topic at a time, clearly and accurately.`

// SnippetPrompt builds the prompt for a discovery reply.
func SnippetPrompt(query string, matched []topicgraph.Topic) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", strings.TrimSpace(query))
	if len(matched) > 0 {
		b.WriteString("\nTopics it relates to:\n")
		for _, t := range matched {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
		}
	}

	b.WriteString(`
Instructions:
Reply in 2-3 sentences. Give the core idea behind the question and point the learner at the related topics above, if any. Use plain ASCII text for all math. No LaTeX, no markdown.`)

	return b.String()
}

// FullPrompt builds the prompt for a full explanation of t. neighbours are
// the names of connected topics, used to anchor the explanation.
func FullPrompt(t topicgraph.Topic, neighbours []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", t.Name)
	fmt.Fprintf(&b, "Description: %s\n", t.Description)
	fmt.Fprintf(&b, "Level: %s\n", t.Difficulty)
	if len(neighbours) > 0 {
		fmt.Fprintf(&b, "Related topics: %s\n", strings.Join(neighbours, ", "))
	}

	b.WriteString(`
Instructions:
1. Explain the topic in 3-6 sentences.
2. List 2-5 key points a learner must remember.
3. Give 1-3 short worked examples.
4. Use plain ASCII text for all math. Use ^ for powers, sqrt() for roots, / for fractions.

If you cannot produce JSON, answer with three sections headed EXPLANATION:, KEY POINTS: and EXAMPLES:, one bullet per line.`)

	return b.String()
}
