package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romangod6/catalog-sitemap/internal/crawler"
	"github.com/romangod6/catalog-sitemap/internal/models"
)

var (
	checkURL    string
	checkFile   string
	checkSample int
	checkJSON   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Visit the pages listed in a sitemap",
	Long: `Fetch every page listed in a sitemap and report its status code,
title, robots noindex flag and any canonical URL that points elsewhere.

The sitemap is read from --url, from --file, or from the store when
neither is given. The command fails when any page does not answer 2xx.

Examples:
  sitemapctl check --sample 50
  sitemapctl check --url https://data.example.org/sitemap.xml --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		var (
			doc *models.URLSet
			err error
		)
		switch {
		case checkURL != "":
			doc, err = crawler.FetchSitemap(ctx, nil, checkURL)
		case checkFile != "":
			doc, err = crawler.ReadSitemapFile(checkFile)
		default:
			a, openErr := openApp()
			if openErr != nil {
				return openErr
			}
			defer a.Close()
			doc, err = storedSitemap(ctx, a)
		}
		if err != nil {
			return err
		}

		checker := crawler.NewChecker(crawler.CheckerConfig{
			UserAgent:   cfg.Checker.UserAgent,
			Parallelism: cfg.Checker.Parallelism,
			Timeout:     cfg.Checker.Timeout,
			Sample:      checkSample,
		}, nil)
		report, err := checker.Check(ctx, doc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if checkJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			for _, p := range report.Pages {
				flag := ""
				if p.NoIndex {
					flag = " [noindex]"
				}
				if p.CanonicalMismatch() {
					flag += " [canonical " + p.Canonical + "]"
				}
				if p.Error != "" {
					fmt.Fprintf(out, "%3d %s%s: %s\n", p.StatusCode, p.Loc, flag, p.Error)
					continue
				}
				fmt.Fprintf(out, "%3d %s%s %q\n", p.StatusCode, p.Loc, flag, p.Title)
			}
			fmt.Fprintf(out, "\n%d checked, %d failed, %d noindex, %d canonical mismatches\n",
				report.Checked, report.Failed, report.NoIndex, report.Canonical)
		}

		if report.Failed > 0 {
			return fmt.Errorf("%d of %d pages failed", report.Failed, report.Checked)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkURL, "url", "", "fetch the sitemap from this URL")
	checkCmd.Flags().StringVar(&checkFile, "file", "", "read the sitemap from this file")
	checkCmd.Flags().IntVar(&checkSample, "sample", 0, "check only the first n pages (0 checks all)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.MarkFlagsMutuallyExclusive("url", "file")
	rootCmd.AddCommand(checkCmd)
}
