package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/mkinsert/config"
	"github.com/darianmavgo/mkinsert/converters"
	"github.com/darianmavgo/mkinsert/converters/common"
)

// Version is set at build time.
var Version = "0.1.0"

const successMessage = "CSV file processed successfully!"

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "mkinsert",
		Short: "Converts a CSV file to SQL insert statements",
		Long: `mkinsert reads a CSV file and writes SQL insert statements for it.

Rows can be grouped into multi-row inserts (--chunk-insert) and statements into
transaction blocks (--chunk). Settings are read from mkinsert.hcl, MKINSERT_*
environment variables and flags, in increasing order of precedence.`,
		Example: `  mkinsert -f people.csv --typed
  mkinsert -f people.csv -t persons -k 1000 -i 100 -p create_table.sql -o -`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runConvert,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	flags.StringP("source", "f", "", "Relative or absolute path to the CSV file, also the default table name")
	flags.StringP("target", "o", "", "Output file, - for stdout (default: source path with .sql extension)")
	flags.String("target-type", string(converters.TargetSQL), "Output kind (sql|csv)")
	flags.StringP("delimiter", "d", "comma", "CSV delimiter (comma|semicolon|tab|pipe|auto)")
	flags.StringP("table", "t", "", "Database table name if different from the CSV file name")
	flags.Bool("headers", true, "Use the first line as column names")
	flags.StringSliceP("column", "c", nil, "Column name, repeatable; overrides the header row")
	flags.IntP("chunk", "k", 0, "Insert statements per transaction (0: one transaction when transactions are on)")
	flags.IntP("chunk-insert", "i", 0, "CSV rows per insert statement (0: one row per statement)")
	flags.StringP("prefix", "p", "", "Template file written before the statements, e.g. to create the table")
	flags.StringP("suffix", "s", "", "Template file written after the statements, e.g. to create indexes")
	flags.Bool("with-transaction", false, "Wrap the statements in begin transaction/commit")
	flags.Bool("typed", false, "Write numbers, booleans and NULL unquoted")
	flags.String("encoding", "", "IANA name of the source encoding (default: UTF-8)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("delimiter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return common.DelimiterNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(converters.TargetSQL), string(converters.TargetCSV)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(a.newConvertCmd())
	rootCmd.AddCommand(a.newLoadCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Convert a CSV file to SQL insert statements (default command)",
		Args:  cobra.NoArgs,
		RunE:  a.runConvert,
	}
}

func (a *app) runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLayered(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	logger := a.logger(cfg.Verbose)
	_, err = converters.Convert(cmd.Context(), req, &converters.ConvertOptions{
		Stdout: a.stdout,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	// Keep stdout clean when it carries the statements.
	out := a.stdout
	if req.Target == converters.StdoutTarget {
		out = a.stderr
	}
	fmt.Fprintln(out, successMessage)
	return nil
}

func (a *app) newLoadCmd() *cobra.Command {
	var database, table string

	cmd := &cobra.Command{
		Use:   "load [script.sql]",
		Short: "Execute a SQL script against a SQLite database",
		Long: `Execute a generated SQL script against a SQLite database.

Without --db the script runs against an in-memory database, which checks that
the script is valid SQL. Without a script argument, or with -, the script is
read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			script := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("%w: failed to open script: %w", common.ErrIO, err)
				}
				defer f.Close()
				script = f
			}

			result, err := converters.LoadSQL(cmd.Context(), script, converters.LoadOptions{
				Database: database,
				Table:    table,
				Logger:   a.logger(verbose),
			})
			if err != nil {
				return err
			}

			if result.Table != "" {
				fmt.Fprintf(a.stdout, "Loaded %d rows into %s (%s)\n", result.Rows, result.Table, result.Database)
			} else {
				fmt.Fprintf(a.stdout, "Script executed against %s\n", result.Database)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&database, "db", "", "SQLite database file (default: in-memory)")
	cmd.Flags().StringVar(&table, "count", "", "Table whose rows are counted after loading")
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the mkinsert configuration file",
	}

	export := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the effective configuration as HCL",
		Long: `Write the effective configuration (config file, environment and flags merged)
as HCL. The default file is ./` + config.DefaultFile + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadLayered(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Export(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Configuration written to %s\n", path)
			return nil
		},
	}
	cmd.AddCommand(export)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mkinsert v%s\n", Version)
		},
	}
}

// logger writes text logs to stderr, including debug messages with verbose.
func (a *app) logger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}
