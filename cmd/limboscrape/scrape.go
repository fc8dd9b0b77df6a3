package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/v0xg/limboscrape/internal/render"
	"github.com/v0xg/limboscrape/internal/session"
)

func newScrapeCmd() *cobra.Command {
	var provider, output string

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape one page and analyze its content",
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

			tag, err := a.resolveProvider(provider)
			if err != nil {
				return err
			}

			printer := newProgressPrinter(a.errOut)
			result, err := a.newPipeline(printer.observe).Run(cmd.Context(), args[0], tag)
			if err != nil {
				return err
			}
			printSuccess(a, result)

			if format == render.FormatText {
				_, err = fmt.Fprint(a.out, render.Result(result, render.DefaultPreviewChars))
				return err
			}
			return render.Encode(a.out, format, result)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Analysis provider: primary, secondary (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}

func printSuccess(a *app, result *session.Result) {
	name := result.Title()
	if name == "" {
		name = result.URL
	}
	fmt.Fprintf(a.errOut, "✓ Successfully scraped %s\n", name)
	if result.Analysis != nil {
		fmt.Fprintf(a.errOut, "✓ Analyzed with %s\n", result.Provider)
	}
}
