package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathgalaxy/internal/unlock"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic> <score>",
	Short: "Record a quiz result for a topic",
	Long: fmt.Sprintf("Record a quiz score (0-%d) for an unlocked topic. A score of %d or more "+
		"passes unless --pass or --fail says otherwise. Passing captures the topic "+
		"and unlocks its neighbours.", unlock.MaxScore, unlock.PassThreshold),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[1])
		if err != nil || score < 0 || score > unlock.MaxScore {
			return fmt.Errorf("invalid score %q: want 0-%d", args[1], unlock.MaxScore)
		}

		pass, _ := cmd.Flags().GetBool("pass")
		fail, _ := cmd.Flags().GetBool("fail")
		passed := unlock.Passed(score)
		switch {
		case pass && fail:
			return fmt.Errorf("--pass and --fail are mutually exclusive")
		case pass:
			passed = true
		case fail:
			passed = false
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, saveErr := e.galaxy.SubmitQuiz(cmd.Context(), args[0], score, passed)
		if !res.Recorded {
			return fmt.Errorf("quiz not recorded for %q: %s", args[0], res.Reason)
		}

		w := cmd.OutOrStdout()
		v, _ := res.Snapshot.Node(res.TopicID)
		verdict := "not passed"
		if passed {
			verdict = "passed"
		}
		lipgloss.Fprintln(w, topicLine(v)+dimStyle.Render(fmt.Sprintf("  %d (%s)", score, verdict)))
		fmt.Fprintf(w, "Best score: %d after %d attempts\n", res.BestScore, res.Attempts)

		if res.Captured {
			lipgloss.Fprintln(w, newStyle.Render("Topic captured!"))
		}
		if len(res.NewlyUnlocked) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Newly unlocked"))
			for _, id := range res.NewlyUnlocked {
				if nv, ok := res.Snapshot.Node(id); ok {
					lipgloss.Fprintln(w, "  "+topicLine(nv))
				}
			}
		}
		return saveErr
	},
}

func init() {
	quizCmd.Flags().Bool("pass", false, "Count the attempt as passed regardless of score")
	quizCmd.Flags().Bool("fail", false, "Count the attempt as failed regardless of score")
}
