package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func ThumbsCmd() *cobra.Command {
	thumbsCmd := &cobra.Command{
		Use:   "thumbs",
		Short: "Manage thumbnails",
	}

	thumbsCmd.AddCommand(&cobra.Command{
		Use:   "backfill",
		Short: "Generate thumbnails for images that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer closeApp(a)

			generated, err := a.ImageService.RegenerateThumbnails(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "generated %d thumbnails\n", generated)
			return nil
		},
	})

	return thumbsCmd
}
