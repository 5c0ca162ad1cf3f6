package cmd

import (
	"github.com/abhisek/mathgalaxy/internal/app"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive galaxy map",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp starts the terminal UI. Logs go to stderr, so the TUI only shows
// warnings and above unless --log-level asks for more.
func runApp(cmd *cobra.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{Galaxy: e.galaxy, SkipSplash: skip})
}

func init() {
	playCmd.Flags().Bool("no-splash", false, "Open the map without the intro screen")
	rootCmd.Flags().Bool("no-splash", false, "Open the map without the intro screen")
}
