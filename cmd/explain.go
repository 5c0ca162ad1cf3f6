package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <topic>",
	Short: "Explain a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		exp, ok := e.galaxy.Explain(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("unknown topic %q", args[0])
		}

		w := cmd.OutOrStdout()
		lipgloss.Fprintln(w, sectionStyle.Render(exp.TopicName))
		fmt.Fprintln(w)
		fmt.Fprintln(w, exp.Body.String())
		if exp.Source == explain.SourceFallback {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, dimStyle.Render(fmt.Sprintf("(offline explanation: %s)", exp.Outcome)))
		}
		return nil
	},
}
