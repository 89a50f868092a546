package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/model"
)

func newCodesCommand(opts *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List income and outcome codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			codeTable, err := p.loadCodes()
			if err != nil {
				return err
			}

			list := codeTable.All()
			if kind != "" {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				list = codeTable.ByKind(k)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Vrsta", "Šifra", "Opis")
			for _, c := range list {
				t.Row(c.Kind.Label(), strconv.Itoa(c.Number), c.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only "+string(model.KindIncome)+" or "+string(model.KindOutcome))

	return cmd
}
