package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathgalaxy/internal/discovery"
	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and discover the topics it mentions",
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, kw := range discovery.Default().Keywords() {
				fmt.Fprintln(w, kw)
			}
			return nil
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, saveErr := e.galaxy.Discover(cmd.Context(), strings.Join(args, " "))

		fmt.Fprintln(w, res.Reply.Text)
		if res.Reply.Source == explain.SourceFallback {
			lipgloss.Fprintln(w, dimStyle.Render("(offline reply)"))
		}

		if len(res.Matched) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, sectionStyle.Render("Topics found"))
			for _, id := range res.Matched {
				v, ok := res.Snapshot.Node(id)
				if !ok {
					continue
				}
				line := "  " + topicLine(v)
				if lo.Contains(res.NewlyUnlocked, id) {
					line += newStyle.Render("  new!")
				}
				lipgloss.Fprintln(w, line)
			}
		}
		return saveErr
	},
}

func init() {
	askCmd.Flags().Bool("list", false, "List every keyword the galaxy understands")
}
