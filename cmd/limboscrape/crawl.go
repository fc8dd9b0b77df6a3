package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/v0xg/limboscrape/internal/credentials"
	"github.com/v0xg/limboscrape/internal/render"
)

func newCrawlCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site starting at url and list the pages found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			key, ok := a.store.Get(credentials.Scrape)
			if !ok {
				return errors.New("Please configure your Firecrawl API key first")
			}

			fmt.Fprintf(a.errOut, "→ Crawling %s... ", args[0])
			res, err := a.newScraper(key).Crawl(cmd.Context(), args[0])
			if err != nil {
				fmt.Fprintln(a.errOut, "failed")
				return fmt.Errorf("crawl failed: %w", err)
			}
			fmt.Fprintf(a.errOut, "done (%d pages)\n", len(res.Data))

			if format == render.FormatText {
				_, err = fmt.Fprint(a.out, render.Crawl(res))
				return err
			}
			return render.Encode(a.out, format, res)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}
