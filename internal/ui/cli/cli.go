// Package cli is the litscan command line: flag parsing, the lint and watch
// loops, and terminal output.
package cli

import (
	"flag"
	"io"
)

type cliOptions struct {
	configPath string
	fix        bool
	noFix      bool
	watch      bool
	verbose    bool
	noColor    bool
	version    bool
	wait       string
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("litscan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./litscan.toml when present)")
	fs.BoolVar(&opts.fix, "fix", false, "Rewrite flagged literals and translate them, overriding rule.auto_fix")
	fs.BoolVar(&opts.noFix, "no-fix", false, "Report only; never rewrite sources")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and re-lint files as they change")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.StringVar(&opts.wait, "wait", "2m", "How long to wait for pending translations before exiting")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if opts.fix && opts.noFix {
		return cliOptions{}, errConflictingFixFlags
	}
	opts.args = fs.Args()
	return opts, nil
}
