package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/izvod"
	"github.com/finman-dev/finman/internal/model"
)

type decodeFlags struct {
	codePage string
	lenient  bool
}

func (f *decodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.codePage, "code-page", "", "statement code page (default from config)")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "skip malformed lines instead of failing")
}

// decoder builds a decoder from config, overridden by flags.
func (f *decodeFlags) decoder(cmd *cobra.Command, p *project) (*izvod.Decoder, error) {
	opts := izvod.Options{
		CodePage: p.cfg.Decoder.CodePage,
		Lenient:  p.cfg.Decoder.Lenient,
	}
	if cmd.Flags().Changed("code-page") {
		opts.CodePage = f.codePage
	}
	if cmd.Flags().Changed("lenient") {
		opts.Lenient = f.lenient
	}
	return izvod.New(opts)
}

func newDecodeCommand(opts *globalOptions) *cobra.Command {
	var flags decodeFlags

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a bank statement and print its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProjectOrDefaults(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dec, err := flags.decoder(cmd, p)
			if err != nil {
				return err
			}

			st, err := dec.DecodeFile(args[0])
			if err != nil {
				return err
			}
			for _, sk := range st.Skipped {
				p.logger.Warn("skipped malformed line", "line", sk.LineNo, "err", sk.Err)
			}

			printStatement(cmd.OutOrStdout(), st)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func printStatement(w io.Writer, st *model.Statement) {
	fmt.Fprintf(w, "Izvod %s/%s, %d line(s)\n", st.Number, st.Year, len(st.Lines))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Vrsta", "Datum", "Iznos", "Uplatitelj", "Poziv na broj", "Opis")
	for _, l := range st.Lines {
		t.Row(
			fmt.Sprint(l.LineNo),
			l.Direction.Label(),
			l.DisplayDate(),
			l.Amount.StringFixed(2),
			l.Counterparty,
			l.Reference,
			l.Description,
		)
	}
	fmt.Fprintln(w, t.Render())

	in, out := st.Totals()
	fmt.Fprintf(w, "Prihod: %s  Rashod: %s\n", in.StringFixed(2), out.StringFixed(2))
	if len(st.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d malformed line(s)\n", len(st.Skipped))
	}
}
