package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csv2sendy/internal/charset"
	"github.com/JonMunkholm/csv2sendy/internal/core"
	"github.com/JonMunkholm/csv2sendy/internal/logging"
)

type convertOptions struct {
	output    string
	delimiter string
	columns   []string
	tagName   string
	tagValue  string
	dedupe    bool
	maxSize   int64
	verbose   bool
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Normalize one CSV file",
		Long: `Decode, normalize and project INPUT, writing the result as CSV.
Use "-" to read from stdin. Output goes to stdout unless -o is given.

Columns are selected and renamed with repeated --column flags:

  csv2sendy convert leads.csv --column first_name=Name --column email=Email \
      --tag-name Tag --tag-value leads -o sendy.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "info"
			}
			logging.SetupTo(cmd.ErrOrStderr(), level, "text")

			return convert(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&opts.delimiter, "delimiter", "", "force the input delimiter instead of detecting it")
	f.StringArrayVar(&opts.columns, "column", nil, "export column as ORIGINAL[=DISPLAY], repeatable and ordered")
	f.StringVar(&opts.tagName, "tag-name", "", "name of a constant tag column to add")
	f.StringVar(&opts.tagValue, "tag-value", "", "value of the tag column")
	f.BoolVar(&opts.dedupe, "dedupe", false, "drop rows repeating an email (default on when --column is used)")
	f.Int64Var(&opts.maxSize, "max-size", 0, "reject inputs larger than this many bytes (0 means no limit)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log a summary to stderr")
	return cmd
}

func convert(cmd *cobra.Command, input string, opts convertOptions) error {
	spec, err := opts.exportSpec(cmd.Flags().Changed("dedupe"))
	if err != nil {
		return err
	}
	normOpts, err := opts.normalizeOptions()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	text, enc, err := charset.ReadText(in, opts.maxSize)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	table, err := core.Normalize(text, normOpts)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", input, err)
	}
	for _, c := range table.Stats.Collisions {
		slog.Warn("header collision", "field", c.Field, "dropped", c.Dropped, "kept", c.Kept)
	}

	p, err := core.Apply(table, spec)
	if err != nil {
		return err
	}

	if opts.output == "" {
		err = p.WriteCSV(cmd.OutOrStdout())
	} else {
		err = writeFile(opts.output, p)
	}
	if err != nil {
		return err
	}

	slog.Info("converted",
		"input", input,
		"encoding", enc,
		"delimiter", table.Stats.Delimiter,
		"input_rows", table.Stats.InputRows,
		"kept_rows", table.Stats.KeptRows,
		"invalid_email_rows", table.Stats.InvalidEmailRows,
		"duplicates_removed", p.DuplicatesRemoved,
	)
	return nil
}

func writeFile(path string, p *core.Projection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (o convertOptions) normalizeOptions() (core.Options, error) {
	if o.delimiter == "" {
		return core.Options{}, nil
	}
	d := o.delimiter
	if d == `\t` {
		d = "\t"
	}
	if utf8.RuneCountInString(d) != 1 {
		return core.Options{}, fmt.Errorf("%w %q", core.ErrInvalidDelimiter, o.delimiter)
	}
	r, _ := utf8.DecodeRuneInString(d)
	return core.Options{Delimiter: r}, nil
}

// exportSpec builds the projection. dedupeSet reports whether --dedupe was
// given explicitly; otherwise the projection default applies.
func (o convertOptions) exportSpec(dedupeSet bool) (core.ExportSpec, error) {
	cols, err := parseColumns(o.columns)
	if err != nil {
		return core.ExportSpec{}, err
	}
	if (o.tagName == "") != (o.tagValue == "") {
		return core.ExportSpec{}, fmt.Errorf("--tag-name and --tag-value must be used together")
	}

	spec := core.ExportSpec{Columns: cols, TagName: o.tagName, TagValue: o.tagValue}
	if dedupeSet {
		d := o.dedupe
		spec.Deduplicate = &d
	}
	return spec, nil
}

// parseColumns reads ORIGINAL[=DISPLAY] pairs.
func parseColumns(args []string) ([]core.ColumnSpec, error) {
	cols := make([]core.ColumnSpec, 0, len(args))
	for _, a := range args {
		orig, display, _ := strings.Cut(a, "=")
		orig = strings.TrimSpace(orig)
		if orig == "" {
			return nil, fmt.Errorf("invalid --column %q: missing column name", a)
		}
		cols = append(cols, core.ColumnSpec{Original: orig, Display: strings.TrimSpace(display)})
	}
	return cols, nil
}
