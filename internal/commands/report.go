package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/model"
	"github.com/finman-dev/finman/internal/store"
)

const isoDate = "2006-01-02"

func newReportCommand(opts *globalOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Income and outcome totals",
	}
	reportCmd.AddCommand(
		newReportYearCommand(opts),
		newReportDayCommand(opts),
		newReportRangeCommand(opts),
	)
	return reportCmd
}

// withLedger loads the project and runs fn against its ledger.
func withLedger(cmd *cobra.Command, opts *globalOptions, fn func(*store.Store) error) error {
	p, err := loadProject(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return withStore(p, fn)
}

// withStore runs fn against the project's ledger.
func withStore(p *project, fn func(*store.Store) error) error {
	ledger, err := p.openStore()
	if err != nil {
		return err
	}
	defer ledger.Close()
	return fn(ledger)
}

func newReportYearCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "year <yyyy>",
		Short: "Totals for a calendar year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 || year > 9999 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			return withLedger(cmd, opts, func(s *store.Store) error {
				t, err := s.YearTotals(cmd.Context(), year)
				if err != nil {
					return err
				}
				printTotals(cmd.OutOrStdout(), strconv.Itoa(year), t)
				return nil
			})
		},
	}
}

func newReportDayCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day [yyyy-mm-dd]",
		Short: "Totals for one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if len(args) > 0 {
				var err error
				if day, err = time.Parse(isoDate, args[0]); err != nil {
					return fmt.Errorf("invalid date %q: %w", args[0], err)
				}
			}
			return withLedger(cmd, opts, func(s *store.Store) error {
				t, err := s.DayTotals(cmd.Context(), day)
				if err != nil {
					return err
				}
				printTotals(cmd.OutOrStdout(), day.Format(model.DisplayDateFormat), t)
				return nil
			})
		},
	}
}

func newReportRangeCommand(opts *globalOptions) *cobra.Command {
	var kind, from, to string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Per-day totals of one kind between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := model.Kind(kind)
			if !k.Valid() {
				return fmt.Errorf("invalid kind %q (income or outcome)", kind)
			}
			start, err := time.Parse(isoDate, from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", from, err)
			}
			end, err := time.Parse(isoDate, to)
			if err != nil {
				return fmt.Errorf("invalid --to %q: %w", to, err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", to, from)
			}

			return withLedger(cmd, opts, func(s *store.Store) error {
				series, err := s.DailySeries(cmd.Context(), k, start, end)
				if err != nil {
					return err
				}
				printSeries(cmd.OutOrStdout(), series)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.KindIncome), "income or outcome")
	cmd.Flags().StringVar(&from, "from", "", "first day, yyyy-mm-dd (required)")
	cmd.Flags().StringVar(&to, "to", "", "last day, yyyy-mm-dd (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func printTotals(w io.Writer, period string, t store.Totals) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(period, "Iznos").
		Row("Prihod", t.Income.StringFixed(2)).
		Row("Rashod", t.Outcome.StringFixed(2)).
		Row("Saldo", t.Balance().StringFixed(2))
	fmt.Fprintln(w, tbl.Render())
}

func printSeries(w io.Writer, series []store.DayTotal) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Datum", "Iznos")
	for _, d := range series {
		tbl.Row(d.Day.Format(model.DisplayDateFormat), d.Total.StringFixed(2))
	}
	fmt.Fprintln(w, tbl.Render())
}
