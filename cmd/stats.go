package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/abhisek/mathgalaxy/internal/ui/components"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show capture progress and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.galaxy.Stats(cmd.Context(), limit)
		if err != nil {
			return err
		}
		g := e.galaxy.Graph()
		w := cmd.OutOrStdout()

		printSummary(w, st.Snapshot, st.Total)
		if st.Record.LastActivity > 0 {
			fmt.Fprintf(w, "Completion %.1f%%, last active %s\n", st.Record.CompletionRate,
				time.UnixMilli(st.Record.LastActivity).Local().Format("2006-01-02 15:04"))
		}

		fmt.Fprintln(w)
		lipgloss.Fprintln(w, sectionStyle.Render("Constellations"))
		for _, cs := range st.Constellations(g) {
			pct := 0.0
			if cs.Total > 0 {
				pct = float64(cs.Captured) / float64(cs.Total)
			}
			label := fmt.Sprintf("%-26s %2d/%-2d", topicgraph.ConstellationDisplayName(cs.Name), cs.Captured, cs.Total)
			lipgloss.Fprintln(w, "  "+components.NewProgressBar(label, pct, false, 56).View())
		}

		if len(st.Topics) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Quizzed topics"))
			fmt.Fprintf(w, "  %-32s  %8s  %6s  %s\n", "Topic", "Attempts", "Best", "Captured")
			fmt.Fprintln(w, "  "+strings.Repeat("─", 60))
			for _, ts := range st.Topics {
				captured := ""
				if ts.Captured {
					captured = "✓"
				}
				fmt.Fprintf(w, "  %-32s  %8d  %6d  %s\n",
					truncate(ts.Topic.Name, 32), ts.Attempts, ts.BestScore, captured)
			}
		}

		if len(st.RecentQuizzes) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Recent quizzes"))
			for _, q := range st.RecentQuizzes {
				name := q.TopicID
				if t, ok := g.Topic(q.TopicID); ok {
					name = t.Name
				}
				mark := "✗"
				if q.Passed {
					mark = "✓"
				}
				fmt.Fprintf(w, "  %s  %s %-32s %3d\n",
					q.Timestamp.Local().Format("2006-01-02 15:04"), mark, truncate(name, 32), q.Score)
			}
		}

		if len(st.RecentDiscovery) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Recent questions"))
			for _, d := range st.RecentDiscovery {
				found := "nothing found"
				if names := topicNames(g, d.Matched); len(names) > 0 {
					found = strings.Join(names, ", ")
				}
				fmt.Fprintf(w, "  %s  %q → %s\n",
					d.Timestamp.Local().Format("2006-01-02 15:04"), truncate(d.Query, 40), found)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent events to show")
}
