package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romangod6/catalog-sitemap/internal/app"
	"github.com/romangod6/catalog-sitemap/internal/crawler"
)

var (
	mirrorFrom  string
	mirrorToken string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy public datasets from a CKAN site into the local catalog",
	Long: `Copy every public dataset and its resources from a remote CKAN
instance into the local database configured under database.*, so that the
sitemap can be built with search.backend set to sqlite or postgres.

Examples:
  sitemapctl mirror --from https://demo.ckan.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		from := mirrorFrom
		if from == "" {
			from = cfg.CKAN.URL
		}
		if from == "" {
			return errors.New("no source: pass --from or set ckan.url")
		}
		token := mirrorToken
		if token == "" {
			token = cfg.CKAN.APIToken
		}

		logger, err := app.NewLogger(cfg, "mirror")
		if err != nil {
			return err
		}
		defer logger.Close()

		catalog, err := app.OpenCatalog(cfg)
		if err != nil {
			return err
		}
		defer catalog.Close()

		n, err := crawler.Mirror(ctx, app.NewCKANClient(from, token), catalog, crawler.MirrorConfig{
			PageSize: cfg.Search.PageSize,
			MaxPages: cfg.Search.MaxPages,
		}, logger)
		if err != nil {
			return err
		}

		total, err := catalog.CountPackages(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mirrored %d datasets from %s; local catalog holds %d\n", n, from, total)
		return nil
	},
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorFrom, "from", "", "CKAN base URL (default: ckan.url)")
	mirrorCmd.Flags().StringVar(&mirrorToken, "token", "", "CKAN API token (default: ckan.apitoken)")
	rootCmd.AddCommand(mirrorCmd)
}
