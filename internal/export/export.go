// Package export writes decoded statements to Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/finman-dev/finman/internal/model"
)

// Header is the first row of every statement sheet.
var Header = []any{"Vrsta", "Opis", "Iznos", "Datum", "Br. izvoda", "Uplatitelj", "Poziv na broj"}

const (
	defaultSheet = "Sheet1"
	scratchSheet = "~finman"
)

// amountFormat is Excel's built-in "#,##0.00".
const amountFormat = 4

// WriteStatement writes st to sheet in the workbook at path. An existing
// workbook is kept and only that sheet is replaced.
func WriteStatement(path, sheet string, st *model.Statement) error {
	if sheet == "" {
		sheet = SheetName(st)
	}

	f, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Write into a scratch sheet first; excelize will not delete the last
	// sheet of a workbook, so the old one goes only after the new one exists.
	old, _ := f.GetSheetIndex(sheet)
	target := sheet
	if old >= 0 {
		target = scratchSheet
	}
	if _, err := f.NewSheet(target); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	if err := writeRows(f, target, st); err != nil {
		return err
	}
	if old >= 0 {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("removing old sheet %s: %w", sheet, err)
		}
		if err := f.SetSheetName(target, sheet); err != nil {
			return fmt.Errorf("renaming sheet %s: %w", sheet, err)
		}
	}

	if sheet != defaultSheet && slices.Contains(f.GetSheetList(), defaultSheet) && isEmpty(f, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// SheetName is the default sheet name for a statement, e.g. "Izvod 042-2023".
func SheetName(st *model.Statement) string {
	return fmt.Sprintf("Izvod %s-%s", st.Number, st.Year)
}

func openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, st *model.Statement) error {
	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, l := range st.Lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		amount, _ := l.Amount.Float64()
		row := []any{
			l.Direction.Label(),
			l.Description,
			amount,
			l.DisplayDate(),
			st.Number,
			l.Counterparty,
			l.Reference,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if len(st.Lines) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
		if err != nil {
			return fmt.Errorf("creating amount style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(3, len(st.Lines)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "C2", last, style); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	return nil
}

func isEmpty(f *excelize.File, sheet string) bool {
	rows, err := f.GetRows(sheet)
	return err == nil && len(rows) == 0
}
