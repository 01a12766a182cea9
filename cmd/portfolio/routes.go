package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/site"
	"github.com/spf13/cobra"
)

func newRoutesCmd(root *rootOptions) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Validate the catalog and print the client route table",
		Args:  cobra.NoArgs,
		Example: `  # Print routes for a catalog outside the working directory
  portfolio routes --catalog content/catalog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				cfg, err := root.load()
				if err != nil {
					return err
				}
				catalogPath = cfg.Site.CatalogPath
			}

			catalog, err := site.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			translator, err := locale.NewCatalog()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tPAGE\tEN\tPT")
			for _, r := range site.NewRouteTable(catalog, translator).Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Path, r.Page, r.Title.In(locale.English), r.Title.In(locale.Portuguese))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file; defaults to site.catalog_path from config")

	return cmd
}
