package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YLivay/delimited/log"
	"github.com/YLivay/delimited/reader"
)

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		cfg     Config
	)

	root := &cobra.Command{
		Use:   "delimited",
		Short: "Parse delimited text (CSV, TSV and the like) into records",
		Long: `delimited reads delimited text files record by record. Quoted fields may
contain the delimiter or line breaks, and a doubled quote inside a quoted
field stands for one literal quote.

Inputs are file names, or - for stdin. With no input, stdin is read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetVerbose(verbose)

			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, &loaded)
			cfg = loaded
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "TOML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringP("delimiter", "d", ",", `field delimiter: a single character, or tab, comma, semicolon, pipe, space`)
	flags.StringP("quote", "q", `"`, "quote character")
	flags.String("encoding", "utf-8", "input encoding, e.g. latin1 or windows-1252")
	flags.BoolP("header", "H", false, "treat the first record as column names")

	root.AddCommand(
		newParseCmd(&cfg),
		newColumnsCmd(&cfg),
		newLoadCmd(&cfg),
	)
	return root
}

func inputsOf(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func newParseCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [input...]",
		Short: "Print the records of each input",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := cfg.Dialect()
			if err != nil {
				return err
			}
			enc, err := lookupEncoding(cfg.Encoding)
			if err != nil {
				return err
			}
			filter, err := newRecordFilter(cfg.Filter)
			if err != nil {
				return err
			}
			// Reject a bad format before any input is read.
			if _, err := newRecordWriter(cfg.Format, io.Discard, nil); err != nil {
				return err
			}

			opts := parseOptions{
				dialect: dialect,
				header:  cfg.Header,
				format:  cfg.Format,
				filter:  filter,
			}
			return runJobs(cmd.Context(), inputsOf(args), jobOptions{enc: enc}, cmd.OutOrStdout(), func(ctx context.Context, name string, input io.Reader, out io.Writer) error {
				return parseInput(ctx, input, out, opts)
			})
		},
	}

	cmd.Flags().StringP("format", "f", formatJSON, "output format: json, yaml, csv, tsv or table")
	cmd.Flags().String("filter", "", "jq expression applied to every record")
	return cmd
}

type parseOptions struct {
	dialect reader.Dialect
	header  bool
	format  string
	filter  *recordFilter
}

// parseInput reads every record of input and writes it to out.
func parseInput(ctx context.Context, input io.Reader, out io.Writer, opts parseOptions) error {
	r, err := reader.NewReader(input, opts.dialect)
	if err != nil {
		return err
	}

	s := reader.NewScanner(r)
	var names []string
	if opts.header && s.Scan() {
		fields := s.Record().Fields
		names = columnNames(fields, len(fields))
	}

	w, err := newRecordWriter(opts.format, out, names)
	if err != nil {
		return err
	}

	for s.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		values, err := opts.filter.Apply(ctx, recordValue(s.Record().Fields, names))
		if err != nil {
			return fmt.Errorf("record at offset %d: %w", s.Record().Start, err)
		}
		for _, v := range values {
			if err := w.Write(v); err != nil {
				return err
			}
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	return w.Flush()
}

func newColumnsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "columns [input...]",
		Short: "Print the number of columns in the first record of each input",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := cfg.Dialect()
			if err != nil {
				return err
			}
			enc, err := lookupEncoding(cfg.Encoding)
			if err != nil {
				return err
			}

			inputs := inputsOf(args)
			opts := jobOptions{enc: enc, needSeek: true}
			return runJobs(cmd.Context(), inputs, opts, cmd.OutOrStdout(), func(ctx context.Context, name string, input io.Reader, out io.Writer) error {
				r, err := reader.NewReader(input, dialect)
				if err != nil {
					return err
				}
				count, err := r.ProbeColumnCount()
				if err != nil {
					return err
				}
				if len(inputs) == 1 {
					_, err = fmt.Fprintln(out, count)
				} else {
					_, err = fmt.Fprintf(out, "%s\t%d\n", name, count)
				}
				return err
			})
		},
	}
}

func newLoadCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [input]",
		Short: "Load the records of an input into a SQLite table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Load.Database == "" {
				return fmt.Errorf("no database given, use --db or set [load] database in the config")
			}
			dialect, err := cfg.Dialect()
			if err != nil {
				return err
			}
			enc, err := lookupEncoding(cfg.Encoding)
			if err != nil {
				return err
			}

			opts := jobOptions{enc: enc, needSeek: true}
			return runJobs(cmd.Context(), inputsOf(args), opts, cmd.OutOrStdout(), func(ctx context.Context, name string, input io.Reader, out io.Writer) error {
				r, err := reader.NewReader(input, dialect)
				if err != nil {
					return err
				}
				rows, err := loadRecords(ctx, cfg.Load.Database, cfg.Load.Table, r, cfg.Header)
				if err != nil {
					return err
				}
				log.Printf("Loaded %d records into %s", rows, cfg.Load.Table)
				return nil
			})
		},
	}

	cmd.Flags().String("db", "", "SQLite database file")
	cmd.Flags().String("table", "records", "table to load into")
	return cmd
}
