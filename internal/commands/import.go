package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/config"
	"github.com/finman-dev/finman/internal/importer"
	"github.com/finman-dev/finman/internal/importlog"
	"github.com/finman-dev/finman/internal/store"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var flags decodeFlags
	var dryRun, showLog bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Book every statement in the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if showLog {
				records, err := importlog.Read(p.root)
				if err != nil {
					return err
				}
				printImportLog(cmd.OutOrStdout(), records)
				return nil
			}

			dec, err := flags.decoder(cmd, p)
			if err != nil {
				return err
			}
			parser := importer.DefaultRegistry(dec).Get(p.cfg.Import.Format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", p.cfg.Import.Format)
			}

			codeTable, err := p.loadCodes()
			if err != nil {
				return err
			}
			ledger, err := p.openStore()
			if err != nil {
				return err
			}
			defer ledger.Close()

			settings := importer.Settings{
				ImportDir:    config.Resolve(p.root, p.cfg.Import.Dir),
				ProcessedDir: config.Resolve(p.root, p.cfg.Import.ProcessedDir),
				Extensions:   p.cfg.Import.Extensions,
				Assignment: store.Assignment{
					IncomeCode:  p.cfg.Import.DefaultIncomeCode,
					OutcomeCode: p.cfg.Import.DefaultOutcomeCode,
				},
			}
			svc := importer.NewService(p.root, settings, parser, ledger, codeTable, p.logger)

			report, err := svc.Run(cmd.Context(), importer.RunOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, f := range report.Files {
				switch {
				case f.Err != nil:
					fmt.Fprintf(w, "%-30s %-10s %v\n", f.File, f.Action, f.Err)
				default:
					fmt.Fprintf(w, "%-30s %-10s %d booked, %d unbooked\n", f.File, f.Action, f.Booked, f.Unbooked)
				}
			}
			if n := report.Failed(); n > 0 {
				return fmt.Errorf("%d of %d statement(s) failed", n, len(report.Files))
			}
			if len(report.Files) == 0 {
				fmt.Fprintln(w, "Nothing to import")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decode and check without booking")
	cmd.Flags().BoolVar(&showLog, "log", false, "show past imports instead of importing")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "log")

	return cmd
}

func printImportLog(w io.Writer, records []importlog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No imports yet")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Vrijeme", "Datoteka", "Izvod", "Akcija", "Stavke", "Napomena")
	for _, r := range records {
		t.Row(
			r.Timestamp.Local().Format(time.DateTime),
			r.File,
			r.Statement,
			string(r.Action),
			strconv.Itoa(r.Lines),
			r.Details,
		)
	}
	fmt.Fprintln(w, t.Render())
}
