package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/darkroom/cmd/darkroomctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "darkroomctl",
		Short:         "Maintenance tools for a darkroom gallery",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ThumbsCmd())
	rootCmd.AddCommand(cmd.OrphansCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
