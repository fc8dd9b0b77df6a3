package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/limboscrape/internal/config"
	"github.com/v0xg/limboscrape/internal/pipeline"
	"github.com/v0xg/limboscrape/internal/render"
	"github.com/v0xg/limboscrape/internal/session"
)

const shellHelp = `Enter a URL to scrape it, or one of:
  results [id]      list results, or show one by id prefix
  clear             clear all results
  provider <tag>    switch the analysis provider (primary, secondary)
  help              show this help
  quit              leave the shell
`

func newShellCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that keeps a list of results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tag, err := a.resolveProvider(provider)
			if err != nil {
				return err
			}

			s := &shell{
				app:      a,
				provider: tag,
				results:  session.NewResults(),
			}
			s.pipeline = a.newPipeline(newProgressPrinter(a.errOut).observe)
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Analysis provider: primary, secondary (default: from config)")
	return cmd
}

type shell struct {
	app      *app
	pipeline *pipeline.Pipeline
	provider string
	results  *session.Results
}

// run reads commands from in until quit, end of input, or ctx is done.
// Input is scanned on its own goroutine so a cancelled ctx ends the
// session without waiting for another line.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	out := s.app.out
	fmt.Fprint(out, shellHelp)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprintf(out, "limboscrape [%s]> ", s.app.analyzer.Label(s.provider))
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if !s.handle(ctx, line) {
				return nil
			}
		}
	}
}

// handle runs one input line and reports whether the session continues.
func (s *shell) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprint(s.app.out, shellHelp)
	case "results":
		s.showResults(fields[1:])
	case "clear":
		s.results.Clear()
		fmt.Fprintln(s.app.out, "✓ Results cleared")
	case "provider":
		s.switchProvider(fields[1:])
	default:
		s.submit(ctx, fields[0])
	}
	return true
}

func (s *shell) submit(ctx context.Context, rawURL string) {
	result, err := s.pipeline.Run(ctx, rawURL, s.provider)
	if err != nil {
		var pe *pipeline.Error
		if errors.As(err, &pe) {
			fmt.Fprintf(s.app.errOut, "✗ %s\n", pe.Message)
		} else {
			fmt.Fprintf(s.app.errOut, "✗ %v\n", err)
		}
		return
	}
	s.results.Add(result)
	printSuccess(s.app, result)
	fmt.Fprint(s.app.out, render.Result(result, render.DefaultPreviewChars))
}

func (s *shell) showResults(args []string) {
	if len(args) == 0 {
		fmt.Fprint(s.app.out, render.ResultList(s.results.List()))
		return
	}
	r, ok := s.results.Get(args[0])
	if !ok {
		fmt.Fprintf(s.app.errOut, "✗ no result matches %q\n", args[0])
		return
	}
	fmt.Fprint(s.app.out, render.Result(r, render.DefaultPreviewChars))
}

func (s *shell) switchProvider(args []string) {
	if len(args) != 1 || !config.IsProviderTag(args[0]) {
		fmt.Fprintln(s.app.errOut, "✗ usage: provider primary|secondary")
		return
	}
	s.provider = args[0]
	if !s.app.analyzer.HasKey(s.provider) {
		fmt.Fprintf(s.app.errOut, "⚠ no %s key stored, analysis will be skipped\n", s.app.analyzer.Label(s.provider))
	}
	fmt.Fprintf(s.app.out, "✓ Using %s\n", s.app.analyzer.Label(s.provider))
}
