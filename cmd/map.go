package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Print the galaxy map grouped by constellation",
	RunE: func(cmd *cobra.Command, args []string) error {
		only, _ := cmd.Flags().GetString("constellation")

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		g := e.galaxy.Graph()
		if only != "" && len(g.ByConstellation(only)) == 0 {
			return fmt.Errorf("unknown constellation %q", only)
		}

		snap := e.galaxy.Map(cmd.Context())
		w := cmd.OutOrStdout()
		printSummary(w, snap, g.Count())
		printMap(w, g, snap, only)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringP("constellation", "c", "", "Only show one constellation (e.g. algebra, geometry)")
}
