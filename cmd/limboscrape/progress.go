package main

import (
	"fmt"
	"io"

	"github.com/v0xg/limboscrape/internal/pipeline"
)

// progressPrinter turns pipeline progress events into "→ step... done" lines.
type progressPrinter struct {
	w        io.Writer
	percents bool
	open     bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, percents: verbose}
}

func (p *progressPrinter) observe(pr pipeline.Progress) {
	switch pr.State {
	case pipeline.Validating, pipeline.Scraping, pipeline.Extracting, pipeline.Analyzing:
		p.finish("done")
		if p.percents {
			fmt.Fprintf(p.w, "→ [%3d%%] %s ", pr.Percent, pr.Step)
		} else {
			fmt.Fprintf(p.w, "→ %s ", pr.Step)
		}
		p.open = true
	case pipeline.Done:
		p.finish("done")
	case pipeline.Failed:
		p.finish("failed")
	}
}

func (p *progressPrinter) finish(word string) {
	if p.open {
		fmt.Fprintln(p.w, word)
		p.open = false
	}
}
