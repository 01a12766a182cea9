package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newProbeCmd(root *rootOptions) *cobra.Command {
	var (
		priority  int
		lang      string
		cacheBust bool
		columns   int
		timeout   string
	)

	cmd := &cobra.Command{
		Use:   "probe <url>...",
		Short: "Load an image list the way a gallery does",
		Long: `Runs the two-phase gallery loader over the given URLs and prints each
loaded image with its orientation and the grid rule it resolves to.

Images that fail to load are dropped, exactly as on the site.`,
		Example: `  # Probe two images, the first as priority
  portfolio probe --priority 1 https://cdn.example.com/a.jpg https://cdn.example.com/b.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := locale.ParseLanguage(lang)
			if err != nil {
				return err
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}
			if timeout != "" {
				cfg.Gallery.ProbeTimeout = timeout
				if err := cfg.Gallery.Finalize(nil); err != nil {
					return err
				}
			}

			translator, err := locale.NewCatalog()
			if err != nil {
				return err
			}

			prober := gallery.NewHTTPProber(&cfg.Gallery, nil)
			loader := gallery.NewLoader(&cfg.Gallery, prober, translator, root.logger(cfg, cmd))

			out := cmd.OutOrStdout()
			c := loader.Load(cmd.Context(), gallery.Request{
				URLs:          args,
				Language:      language,
				PriorityCount: priority,
				CacheBust:     cacheBust || cfg.Gallery.CacheBust,
			})
			for state := range c.Updates() {
				fmt.Fprintf(out, "loaded %d/%d loading=%t lazy_loading=%t\n",
					len(state.Grid), len(args), state.Loading, state.LazyLoading)
			}

			state := c.State()
			if state.Error != "" {
				fmt.Fprintln(out, state.Error)
			}

			r, err := grid.New(state.Grid, grid.Options{Columns: columns}, nil, grid.FromProber(prober))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "POS\tCELL\tSIZE\tORIENTATION\tASPECT\tFIT\tURL")
			for _, p := range r.Layout(cmd.Context()) {
				size := "-"
				if p.Item.HasDimensions() {
					size = fmt.Sprintf("%dx%d", p.Item.Width, p.Item.Height)
				}
				fmt.Fprintf(tw, "%d\t%d,%d\t%s\t%s\t%s\t%s\t%s\n",
					p.Item.Position, p.Row, p.Column, size, p.Orientation,
					p.Rule.AspectRatio, p.Rule.ObjectFit, p.Item.Source())
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "%d of %d images loaded (header limit %s)\n",
				len(state.Grid), len(args), units.HumanSize(float64(cfg.Gallery.MaxProbeSizeBytes())))
			return nil
		},
	}

	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "Number of images loaded in the priority phase")
	cmd.Flags().StringVarP(&lang, "lang", "l", string(locale.DefaultLanguage), "Language for alt text and messages (en, pt)")
	cmd.Flags().BoolVar(&cacheBust, "cache-bust", false, "Append a timestamp parameter to every URL")
	cmd.Flags().IntVar(&columns, "columns", grid.DefaultColumns, "Grid columns used for the layout")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Per-image probe timeout, e.g. 5s")

	return cmd
}
