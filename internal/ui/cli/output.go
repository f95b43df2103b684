package cli

import (
	"fmt"
	"io"
	"time"

	"litscan/internal/core/app"
	"litscan/internal/core/ports"

	"github.com/fatih/color"
)

// printer writes the plain terminal listing: one path:line:col line per
// violation, then a summary.
type printer struct {
	w     io.Writer
	path  *color.Color
	msg   *color.Color
	fixed *color.Color
	warn  *color.Color
	bold  *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:     w,
		path:  color.New(color.Bold),
		msg:   color.New(color.FgYellow),
		fixed: color.New(color.FgGreen),
		warn:  color.New(color.FgRed),
		bold:  color.New(color.Bold),
	}
}

func (p *printer) Report(r app.Report) {
	for _, f := range r.Files {
		for i, v := range f.Violations {
			loc := p.path.Sprintf("%s:%d:%d:", v.Path, v.Line, v.Column)
			if i < len(f.Fixed) && f.Fixed[i] {
				fmt.Fprintf(p.w, "%s %s %s\n", loc, v.Message, p.fixed.Sprint("(fixed)"))
				continue
			}
			fmt.Fprintf(p.w, "%s %s\n", loc, p.msg.Sprint(v.Message))
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(p.w, "%s %s\n", p.warn.Sprint("warning:"), w)
	}
}

func (p *printer) Summary(r app.Report, elapsed time.Duration) {
	violations, remaining, applied, jobs := r.Totals()
	status := p.fixed.Sprint("clean")
	if remaining > 0 {
		status = p.warn.Sprintf("%d remaining", remaining)
	}
	fmt.Fprintf(p.w, "\n%s %d files, %d literals flagged, %d fixed, %d translation jobs (%s), %s\n",
		p.bold.Sprint("litscan:"), len(r.Files), violations, applied, jobs,
		elapsed.Round(time.Millisecond), status)
}

func (p *printer) Tasks(counts map[ports.TaskStatus]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(p.w, "%s stored=%d skipped=%d fallback=%d error=%d\n",
		p.bold.Sprint("translations:"),
		counts[ports.TaskStored], counts[ports.TaskSkipped],
		counts[ports.TaskFallback], counts[ports.TaskError])
}

// TaskFailures lists the journaled tasks that stored the fallback or failed.
func (p *printer) TaskFailures(runID string, outcomes []ports.TaskOutcome) {
	header := false
	for _, o := range outcomes {
		if o.Status != ports.TaskFallback && o.Status != ports.TaskError {
			continue
		}
		if !header {
			fmt.Fprintf(p.w, "%s run %s\n", p.bold.Sprint("failed tasks:"), runID)
			header = true
		}
		line := fmt.Sprintf("  %s %s %q -> %s", o.Status, o.Locale, o.Key, o.Path)
		if o.Err != "" {
			line += ": " + o.Err
		}
		fmt.Fprintln(p.w, p.warn.Sprint(line))
	}
}

// collectOutcomes counts the task outcomes of every job the run scheduled.
func collectOutcomes(r app.Report) map[ports.TaskStatus]int {
	counts := make(map[ports.TaskStatus]int)
	for _, f := range r.Files {
		for _, job := range f.Jobs {
			for _, o := range job.Outcomes() {
				counts[o.Status]++
			}
		}
	}
	return counts
}
