package cmd

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathgalaxy/internal/discovery"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Inspect the topic catalog",
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics with their state",
	RunE: func(cmd *cobra.Command, args []string) error {
		only, _ := cmd.Flags().GetString("constellation")
		state, _ := cmd.Flags().GetString("state")
		if state != "" && !lo.Contains([]string{"captured", "unlocked", "locked"}, state) {
			return fmt.Errorf("invalid state %q: want captured, unlocked or locked", state)
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		snap := e.galaxy.Map(cmd.Context())
		w := cmd.OutOrStdout()

		fmt.Fprintf(w, "%-26s  %-32s  %-16s  %-12s  %s\n",
			"ID", "Name", "Constellation", "Difficulty", "State")
		fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, v := range snap.Nodes {
			if only != "" && v.Topic.Constellation != only {
				continue
			}
			if state != "" && stateLabel(v) != state {
				continue
			}
			fmt.Fprintf(w, "%-26s  %-32s  %-16s  %-12s  %s\n",
				truncate(v.Topic.ID, 26),
				truncate(v.Topic.Name, 32),
				v.Topic.Constellation,
				v.Topic.Difficulty,
				stateLabel(v),
			)
		}
		return nil
	},
}

var topicShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one topic, its neighbours and quiz progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		snap := e.galaxy.Map(cmd.Context())
		v, ok := snap.Node(args[0])
		if !ok {
			return fmt.Errorf("unknown topic %q", args[0])
		}
		t := v.Topic
		w := cmd.OutOrStdout()

		lipgloss.Fprintln(w, topicLine(v))
		fmt.Fprintf(w, "ID:             %s\n", t.ID)
		fmt.Fprintf(w, "Constellation:  %s\n", topicgraph.ConstellationDisplayName(t.Constellation))
		fmt.Fprintf(w, "Difficulty:     %s\n", t.Difficulty)
		fmt.Fprintf(w, "State:          %s\n", stateLabel(v))
		if attempts := snap.Record.Attempts(t.ID); attempts > 0 {
			best, _ := snap.Record.BestScore(t.ID)
			fmt.Fprintf(w, "Best score:     %d (%d attempts)\n", best, attempts)
		}
		if t.Description != "" {
			fmt.Fprintf(w, "\n%s\n", t.Description)
		}

		neighbours := e.galaxy.Graph().ConnectedTopics(t.ID)
		if len(neighbours) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Connected topics"))
			for _, n := range neighbours {
				nv, _ := snap.Node(n.ID)
				lipgloss.Fprintln(w, "  "+topicLine(nv)+dimStyle.Render("  "+n.ID))
			}
		}
		return nil
	},
}

var topicCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the topic catalog and keyword table",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := topicgraph.Default()
		m := discovery.Default()
		w := cmd.OutOrStdout()

		var problems []string
		if err := g.Validate(); err != nil {
			problems = append(problems, err.Error())
		}

		// Dangling edges are tolerated at runtime but worth fixing.
		for _, e := range g.DanglingEdges() {
			fmt.Fprintf(w, "warning: %s lists unknown topic %q\n", e.From, e.To)
		}

		for _, kw := range m.Keywords() {
			for _, id := range m.Topics(kw) {
				if !g.Has(id) {
					problems = append(problems, fmt.Sprintf("keyword %q maps to unknown topic %q", kw, id))
				}
			}
		}

		unreachable := lo.Filter(g.All(), func(t topicgraph.Topic, _ int) bool {
			return t.ID != g.Root() && len(m.Match(t.Name)) == 0 && !hasInbound(g, t.ID)
		})
		for _, t := range unreachable {
			fmt.Fprintf(w, "warning: %s cannot be unlocked by a capture or found by its name\n", t.ID)
		}

		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintln(w, "error:", p)
			}
			return errors.New("catalog check failed")
		}
		fmt.Fprintf(w, "ok: %d topics, %d constellations, %d keywords\n",
			g.Count(), len(g.Constellations()), len(m.Keywords()))
		return nil
	},
}

// hasInbound reports whether id can be unlocked by capturing a topic in its
// own adjacency list.
func hasInbound(g *topicgraph.Graph, id string) bool {
	return len(g.ConnectedTopics(id)) > 0
}

func init() {
	topicListCmd.Flags().StringP("constellation", "c", "", "Filter by constellation")
	topicListCmd.Flags().StringP("state", "s", "", "Filter by state: captured, unlocked, locked")

	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicShowCmd)
	topicCmd.AddCommand(topicCheckCmd)
}
