package main

import (
	"flag"
	"io"
	"time"
)

// Options holds CLI options for serial.
type Options struct {
	Input    string
	From     string
	To       string
	Default  string
	Pretty   bool
	List     bool
	LogLevel string
	Timeout  time.Duration
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string, output io.Writer) (Options, error) {
	fs := flag.NewFlagSet("serial", flag.ContinueOnError)
	fs.SetOutput(output)

	var opts Options
	fs.StringVar(&opts.Input, "in", "-", "input file path, URL, or - for stdin")
	fs.StringVar(&opts.From, "from", "", "input format name or content type (default: derived from -in)")
	fs.StringVar(&opts.To, "to", "", "output format name or content type (default: the default format)")
	fs.StringVar(&opts.Default, "default", "", "default format name")
	fs.BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")
	fs.BoolVar(&opts.List, "list", false, "list registered formats and exit")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "timeout for URL input")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 && opts.Input == "-" {
		opts.Input = fs.Arg(0)
	}
	return opts, nil
}
