package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romangod6/catalog-sitemap/internal/sitemap"
)

var buildIfStale bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerate the stored sitemap",
	Long: `Build a new sitemap from the dataset search and replace the stored
artifact.

With --if-stale the stored artifact is kept when it is still within
sitemap.maxage, exactly as a request to /sitemap.xml would.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var res *sitemap.Result
		if buildIfStale {
			res, err = a.Controller.Resolve(ctx)
		} else {
			res, err = a.Controller.Rebuild(ctx)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", res.Outcome, res.Artifact.Name, len(res.Body))
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildIfStale, "if-stale", false, "only rebuild when the stored sitemap is missing or stale")
	rootCmd.AddCommand(buildCmd)
}
