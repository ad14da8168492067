package main

import "github.com/romangod6/catalog-sitemap/cmd/sitemapctl/cmd"

func main() {
	cmd.Execute()
}
