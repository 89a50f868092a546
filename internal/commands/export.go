package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/config"
	"github.com/finman-dev/finman/internal/export"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var flags decodeFlags
	var out, sheet string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Decode a bank statement into an Excel workbook",
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

			if out == "" {
				out = filepath.Join(config.Resolve(p.root, p.cfg.Export.Dir), "izvodi.xlsx")
			}
			if sheet == "" {
				sheet = export.SheetName(st)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}
			if err := export.WriteStatement(out, sheet, st); err != nil {
				return err
			}

			p.logger.Debug("exported statement", "sheet", sheet, "lines", len(st.Lines))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d line(s) to %s [%s]\n", len(st.Lines), out, sheet)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "workbook path (default <export dir>/izvodi.xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default \"Izvod <number>-<year>\")")

	return cmd
}
