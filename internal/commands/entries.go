package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/id"
	"github.com/finman-dev/finman/internal/model"
	"github.com/finman-dev/finman/internal/store"
)

func parseKind(s string) (model.Kind, error) {
	k := model.Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid kind %q (income or outcome)", s)
	}
	return k, nil
}

func parseDay(flag, s string) (time.Time, error) {
	d, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	return d, nil
}

func newAddCommand(opts *globalOptions) *cobra.Command {
	var kind, amount, day, desc, counterparty string
	var code int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or outcome by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			d := time.Now()
			if day != "" {
				if d, err = parseDay("date", day); err != nil {
					return err
				}
			}

			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			codeTable, err := p.loadCodes()
			if err != nil {
				return err
			}
			c, ok := codeTable.Get(k, code)
			if !ok {
				return fmt.Errorf("%s code %d does not exist", k, code)
			}

			return withStore(p, func(s *store.Store) error {
				e := &store.Entry{
					Kind:         k,
					Code:         code,
					Description:  desc,
					Amount:       amt.Round(2),
					Day:          store.DayOf(d),
					Counterparty: counterparty,
				}
				if err := s.Add(cmd.Context(), e, codeTable); err != nil {
					return err
				}
				p.logger.Debug("added entry", "id", e.ID, "kind", k, "code", code)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s under %d %s\n",
					k.Label(), e.Amount.StringFixed(2), d.Format(model.DisplayDateFormat), c.Number, c.Description)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "income or outcome (required)")
	cmd.Flags().IntVar(&code, "code", 0, "booking code (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 25.00 (required)")
	cmd.Flags().StringVar(&day, "date", "", "day, yyyy-mm-dd (default today)")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "payer or payee")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var kind, from, to string
	var code int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List booked entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f store.Filter
			var err error
			if kind != "" {
				if f.Kind, err = parseKind(kind); err != nil {
					return err
				}
			}
			f.Code = code
			if from != "" {
				if f.From, err = parseDay("from", from); err != nil {
					return err
				}
			}
			if to != "" {
				if f.To, err = parseDay("to", to); err != nil {
					return err
				}
			}

			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return withStore(p, func(s *store.Store) error {
				entries, err := s.List(cmd.Context(), f)
				if err != nil {
					return err
				}
				printEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "income or outcome")
	cmd.Flags().IntVar(&code, "code", 0, "booking code")
	cmd.Flags().StringVar(&from, "from", "", "first day, yyyy-mm-dd")
	cmd.Flags().StringVar(&to, "to", "", "last day, yyyy-mm-dd")

	return cmd
}

// sourceOf renders where an entry came from: "042/2023 #3" or "ručno".
func sourceOf(e store.Entry) string {
	if e.SourceRef == nil {
		return "ručno"
	}
	year, number, seq, err := id.ParseLineRef(*e.SourceRef)
	if err != nil {
		return *e.SourceRef
	}
	return fmt.Sprintf("%s/%s #%d", number, year, seq)
}

func printEntries(w io.Writer, entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Datum", "Vrsta", "Šifra", "Iznos", "Opis", "Uplatitelj", "Izvor")
	for _, e := range entries {
		t.Row(
			e.Date().Format(model.DisplayDateFormat),
			e.Kind.Label(),
			strconv.Itoa(e.Code),
			e.Amount.StringFixed(2),
			e.Description,
			e.Counterparty,
			sourceOf(e),
		)
	}
	fmt.Fprintln(w, t.Render())
}
