package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/ormchart/internal/browse"
	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/source"
	"github.com/2beens/ormchart/internal/window"
	"github.com/2beens/ormchart/internal/workout"
	"github.com/2beens/ormchart/pkg"
)

type rootOptions struct {
	file         string
	timeZone     string
	firstWeekday string
	jsonOutput   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ormctl",
		Short:         "Inspect one-rep max progress from exercise record files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.file, "file", "records.txt", "records file (date,exercise,reps,weight per line)")
	root.PersistentFlags().StringVar(&opts.timeZone, "tz", "", "time zone of the record dates (default local)")
	root.PersistentFlags().StringVar(&opts.firstWeekday, "first-weekday", "sunday", "first day of the week")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	root.AddCommand(newExercisesCmd(opts))
	root.AddCommand(newWindowCmd(opts))
	root.AddCommand(newDayCmd(opts))
	root.AddCommand(newExportSQLiteCmd(opts))
	root.AddCommand(newDumpCmd(opts))
	root.AddCommand(newHashTokenCmd())
	return root
}

func (o *rootOptions) location() (*time.Location, error) {
	if o.timeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(o.timeZone)
}

func (o *rootOptions) weekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), o.firstWeekday) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid first weekday: %s", o.firstWeekday)
}

func (o *rootOptions) loadManager(ctx context.Context) (*workout.Manager, *time.Location, error) {
	loc, err := o.location()
	if err != nil {
		return nil, nil, err
	}
	manager := workout.NewManager(records.NewStore(loc), source.NewFileSource(o.file, loc), nil)
	if _, err := manager.Load(ctx); err != nil {
		return nil, nil, err
	}
	return manager, loc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newExercisesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List exercises with their best one-rep max",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, _, err := opts.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			summaries := manager.Summaries()
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			for _, s := range summaries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-24s %d\n", s.Exercise, s.MaxOneRM)
			}
			return nil
		},
	}
}

func newWindowCmd(opts *rootOptions) *cobra.Command {
	var (
		exercise string
		unit     string
		back     int
	)

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "Show daily one-rep max of an exercise for a week, month or year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tf, err := window.ParseTimeFrame(unit)
			if err != nil {
				return err
			}
			firstWeekday, err := opts.weekday()
			if err != nil {
				return err
			}
			manager, loc, err := opts.loadManager(cmd.Context())
			if err != nil {
				return err
			}

			service := browse.NewService(manager, nil, loc, firstWeekday, nil)
			w, err := service.WindowAt(exercise, tf, back)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), w)
			}
			printWindow(cmd.OutOrStdout(), exercise, w)
			return nil
		},
	}
	windowCmd.Flags().StringVar(&exercise, "exercise", "", "exercise name")
	windowCmd.Flags().StringVar(&unit, "unit", "month", "window size: week|month|year")
	windowCmd.Flags().IntVar(&back, "back", 0, "windows to step back from the latest one")
	_ = windowCmd.MarkFlagRequired("exercise")
	return windowCmd
}

func printWindow(out io.Writer, exercise string, w window.Window) {
	_, _ = fmt.Fprintf(out, "%s  %s  max %.1f\n", exercise, w.Label, w.Max)
	weekStarts := make(map[time.Time]bool, len(w.StartOfWeekDays))
	for _, d := range w.StartOfWeekDays {
		weekStarts[d] = true
	}
	for _, d := range w.Days {
		marker := " "
		if weekStarts[d.Date] {
			marker = "|"
		}
		bar := ""
		if w.Max > 0 {
			bar = strings.Repeat("#", int(d.OneRepMax/w.Max*40))
		}
		_, _ = fmt.Fprintf(out, "%s %s %7.1f %s\n", marker, d.Date.Format("Mon Jan 02"), d.OneRepMax, bar)
	}
}

func newDayCmd(opts *rootOptions) *cobra.Command {
	var date string

	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "List the records of one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, loc, err := opts.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			d, err := time.ParseInLocation("2006-01-02", date, loc)
			if err != nil {
				return fmt.Errorf("invalid date %q, use YYYY-MM-DD", date)
			}
			list := manager.RecordsByDay(d)
			if opts.jsonOutput {
				if list == nil {
					list = []records.ExerciseRecord{}
				}
				return printJSON(cmd.OutOrStdout(), list)
			}
			for _, r := range list {
				deleted := ""
				if r.Deleted {
					deleted = " (deleted)"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-24s %2d x %6.1f  1RM %6.1f%s\n",
					r.Exercise, r.Repetitions, r.Weight, r.OneRepMax, deleted)
			}
			return nil
		},
	}
	dayCmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD)")
	_ = dayCmd.MarkFlagRequired("date")
	return dayCmd
}

func newExportSQLiteCmd(opts *rootOptions) *cobra.Command {
	var out string

	exportCmd := &cobra.Command{
		Use:   "export-sqlite",
		Short: "Copy the records file into a SQLite database usable as a records source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			recs, err := source.NewFileSource(opts.file, loc).FetchRecords(cmd.Context())
			if err != nil {
				return err
			}
			if err := source.ExportSQLite(cmd.Context(), out, recs, loc); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(recs), out)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&out, "out", "records.db", "SQLite database path")
	return exportCmd
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var sqlitePath string

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print records as raw lines, from the records file or a SQLite export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			var src source.Source = source.NewFileSource(opts.file, loc)
			if sqlitePath != "" {
				src = source.NewSQLiteSource(sqlitePath, loc)
			}
			recs, err := src.FetchRecords(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range recs {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), source.FormatLine(r, loc))
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "read from this SQLite export instead of --file")
	return dumpCmd
}

func newHashTokenCmd() *cobra.Command {
	var cost int

	hashCmd := &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash of an admin token for ORMCHART_ADMIN_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := pkg.HashToken(args[0], cost)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	hashCmd.Flags().IntVar(&cost, "cost", pkg.TokenHashCost, "bcrypt cost")
	return hashCmd
}
