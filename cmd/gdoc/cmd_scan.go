package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gdoc/config"
	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/format"
	"github.com/dhamidi/gdoc/scan"
	"github.com/dhamidi/gdoc/store"
)

func newScanCmd(g *globals) *cobra.Command {
	var (
		outputFormat string
		output       string
		workers      int
		sqlitePath   string
		dialects     []string
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a directory, jar, or zip and print the documentation model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Root = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.Format = outputFormat
			}
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("db") {
				cfg.SQLite = sqlitePath
			}
			if flags.Changed("dialect") {
				cfg.Dialects = dialects
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runScan(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, yaml, line, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "units traversed in parallel (0 means one per CPU)")
	cmd.Flags().StringVar(&sqlitePath, "db", "", "also save the model to this SQLite database")
	cmd.Flags().StringSliceVar(&dialects, "dialect", nil, "restrict scanning to these dialects (java, groovy)")

	return cmd
}

func runScan(ctx context.Context, cfg *config.Config) error {
	model, errs, err := scanModel(ctx, cfg)
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  - %s\n", e)
	}
	log.Infof("%d classes, %d errors", model.Len(), len(errs))

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc, err := format.ForName(cfg.Format, w)
	if err != nil {
		return err
	}
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if cfg.SQLite != "" {
		st, err := store.Open(cfg.SQLite)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(ctx, model); err != nil {
			return fmt.Errorf("save %s: %w", cfg.SQLite, err)
		}
		log.Infof("saved %d classes to %s", model.Len(), cfg.SQLite)
	}
	return nil
}

// scanModel discovers and traverses everything below cfg.Root.
func scanModel(ctx context.Context, cfg *config.Config) (*doc.Model, []error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	units, err := scan.Discover(cfg.Root, discoverOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", cfg.Root, err)
	}
	scanner := newScanner(cfg)
	model, errs := scanner.Run(ctx, units)
	return model, errs, nil
}

func newScanner(cfg *config.Config) *scan.Scanner {
	return scan.New(
		scan.WithWorkers(cfg.Workers),
		scan.WithCacheSize(cfg.CacheSize),
	)
}

func discoverOptions(cfg *config.Config) scan.DiscoverOptions {
	opts := scan.DiscoverOptions{IncludeHidden: cfg.IncludeHidden}
	for _, d := range cfg.Dialects {
		opts.Dialects = append(opts.Dialects, scan.Dialect(d))
	}
	return opts
}
