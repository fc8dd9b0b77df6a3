package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/v0xg/limboscrape/internal/credentials"
	"github.com/v0xg/limboscrape/internal/render"
)

var errInvalidScrapeKey = errors.New("Invalid API key. Please check and try again.")

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored API keys",
		Long: `Manage the API keys stored in the profile.

Names:
  scrape         Firecrawl API key
  llm_primary    key for the primary analysis provider (OpenRouter by default)
  llm_secondary  key for the secondary analysis provider (Perplexity by default)`,
	}
	keysCmd.AddCommand(newKeysSetCmd(), newKeysStatusCmd(), newKeysTestCmd(), newKeysDeleteCmd())
	return keysCmd
}

func newKeysSetCmd() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Store an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := credentials.ParseName(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if name == credentials.Scrape && !skipVerify {
				fmt.Fprint(a.errOut, "→ Verifying Firecrawl API key... ")
				if !a.newScraper("").TestKey(cmd.Context(), args[1]) {
					fmt.Fprintln(a.errOut, "failed")
					return errInvalidScrapeKey
				}
				fmt.Fprintln(a.errOut, "done")
			}

			if err := a.store.Save(name, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✓ Saved %s key\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Save the scrape key without a test request")
	return cmd
}

func newKeysStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which API keys are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprint(a.out, render.KeyStatus(a.store.Status()))
			return err
		},
	}
}

func newKeysTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check the stored Firecrawl API key with a live request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			key, ok := a.store.Get(credentials.Scrape)
			if !ok {
				return errors.New("Please configure your Firecrawl API key first")
			}

			fmt.Fprint(a.errOut, "→ Testing Firecrawl API key... ")
			if !a.newScraper("").TestKey(cmd.Context(), key) {
				fmt.Fprintln(a.errOut, "failed")
				return errInvalidScrapeKey
			}
			fmt.Fprintln(a.errOut, "done")
			fmt.Fprintln(a.out, "✓ Firecrawl API key is valid")
			return nil
		},
	}
}

func newKeysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := credentials.ParseName(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✓ Deleted %s key\n", name)
			return nil
		},
	}
}
