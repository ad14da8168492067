package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/romangod6/catalog-sitemap/internal/app"
	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
)

var errNoSitemap = errors.New("no sitemap stored; run sitemapctl build first")

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the stored sitemap as text, HTML or JSON",
	Long: `Render the stored sitemap in an alternate format for review.

Examples:
  sitemapctl export --format txt
  sitemapctl export --format html --out sitemap.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := storedSitemap(ctx, a)
		if err != nil {
			return err
		}
		out, err := sitemap.Export(doc, exportFormat)
		if err != nil {
			return err
		}

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(exportOut, out, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d urls to %s\n", len(doc.URLs), exportOut)
		return nil
	},
}

// storedSitemap parses the current artifact without rebuilding it.
func storedSitemap(ctx context.Context, a *app.App) (*models.URLSet, error) {
	cur, err := a.Artifacts.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, errNoSitemap
	}
	body, err := a.Artifacts.Read(ctx, cur)
	if err != nil {
		return nil, err
	}
	return sitemap.Unmarshal(body)
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", sitemap.FormatTXT, "output format: txt, html or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
