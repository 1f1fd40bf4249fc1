package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/couchcryptid/nwss-report/internal/config"
)

// parseArgs applies command-line flags and positional arguments on top of
// opts, which already carries profile defaults. Only flags given explicitly
// override the profile.
func parseArgs(args []string, opts config.Options, stderr io.Writer) (config.Options, error) {
	fs := flag.NewFlagSet("nwss-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n")
		fmt.Fprintf(fs.Output(), "  nwss-report [flags] <nwss.csv|nwss.xlsx> <YYYY-MM-DD:YYYY-MM-DD>\n")
		fmt.Fprintf(fs.Output(), "  nwss-report [flags] -last-days N <nwss.csv|nwss.xlsx>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.Func("jurisdiction", "only rows whose reporting_jurisdiction contains this text, e.g. \"Washington\"", func(s string) error {
		opts.Jurisdiction = &s
		return nil
	})
	fs.Func("wwtp_id", "only rows with exactly this wwtp_id, e.g. \"1398\"", func(s string) error {
		opts.WWTPID = &s
		return nil
	})
	fs.BoolVar(&opts.TotalsOnly, "totals_only", opts.TotalsOnly, "print totals only")
	fs.BoolVar(&opts.Verbose, "verbose", opts.Verbose, "print matched rows for each site")
	fs.StringVar(&opts.Format, "format", opts.Format, "report format: text or json")
	fs.IntVar(&opts.LastDays, "last-days", opts.LastDays, "use the N days up to and including today as the window")

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return config.Options{}, err
	}

	lastDaysFlag := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "last-days" {
			lastDaysFlag = true
		}
	})

	switch len(positional) {
	case 0:
		fs.Usage()
		return config.Options{}, errors.New("missing input file")
	case 1:
		opts.InputPath = positional[0]
	case 2:
		opts.InputPath = positional[0]
		opts.Window = positional[1]
		if !lastDaysFlag {
			// An explicit window replaces a profile's relative one.
			opts.LastDays = 0
		}
	default:
		return config.Options{}, fmt.Errorf("unexpected arguments %q", positional[2:])
	}
	return opts, nil
}

// parseInterleaved parses flags that appear before, between, or after
// positional arguments and returns the positionals in order.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
