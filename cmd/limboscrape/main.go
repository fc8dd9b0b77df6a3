package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	profileDir string
	configPath string
	verbose    bool
	logLevel   string
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// After the first signal, a second one falls through to the default handler.
		<-ctx.Done()
		stop()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "limboscrape",
		Short: "Scrape web pages through Firecrawl and analyze them with an LLM",
		Long: `limboscrape fetches a page through the Firecrawl API, extracts its main
content, and optionally asks a language model for a summary, keywords,
a category and the overall sentiment.

Example:
  limboscrape keys set scrape fc-...
  limboscrape scrape "https://example.com/blog/post"`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&profileDir, "profile", "", "Profile directory holding credentials and config (default: $LIMBOSCRAPE_PROFILE or user config dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <profile>/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newScrapeCmd(),
		newCrawlCmd(),
		newKeysCmd(),
		newShellCmd(),
	)
	return rootCmd
}
