package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func OrphansCmd() *cobra.Command {
	orphansCmd := &cobra.Command{
		Use:   "orphans",
		Short: "Find uploaded files without an image record",
	}

	var remove bool
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "List orphaned files, deleting them with --delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer closeApp(a)

			orphans, err := a.ImageService.SweepOrphans(cmd.Context(), remove)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range orphans {
				fmt.Fprintln(out, key)
			}

			verb := "found"
			if remove {
				verb = "deleted"
			}
			fmt.Fprintf(out, "%s %d orphaned files\n", verb, len(orphans))
			return nil
		},
	}
	sweepCmd.Flags().BoolVar(&remove, "delete", false, "delete the orphaned files")

	orphansCmd.AddCommand(sweepCmd)
	return orphansCmd
}
