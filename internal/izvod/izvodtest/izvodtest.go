// Package izvodtest builds fixed-width statement files for tests.
package izvodtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// LineWidth is the width of a fully padded transaction line.
const LineWidth = 480

// Line holds the raw column text of one transaction line. Fields are placed
// left-aligned in their columns and cut to the column width.
type Line struct {
	Code         string
	IBAN         string
	Counterparty string
	Address      string
	City         string
	Date         string // YYYYMMDD
	Amount       string // minor units, see Minor
	Reference    string
	Description  string
}

// Minor formats cents the way the bank pads them.
func Minor(cents int64) string {
	return fmt.Sprintf("%014d", cents)
}

// String renders the line padded to LineWidth.
func (l Line) String() string {
	buf := blank(LineWidth)
	put(buf, 0, 2, l.Code)
	put(buf, 2, 36, l.IBAN)
	put(buf, 36, 106, l.Counterparty)
	put(buf, 106, 141, l.Address)
	put(buf, 141, 176, l.City)
	put(buf, 176, 184, l.Date)
	put(buf, 228, 242, l.Amount)
	put(buf, 268, 294, l.Reference)
	put(buf, 298, 480, l.Description)
	return string(buf)
}

// Header renders the first line with the statement year.
func Header(year string) string {
	buf := blank(200)
	put(buf, 0, 20, "900HRVHUB")
	put(buf, 72, 76, year)
	return string(buf)
}

// NumberLine renders the second line with the statement number.
func NumberLine(number string) string {
	buf := blank(200)
	put(buf, 0, 20, "903")
	put(buf, 166, 169, number)
	return string(buf)
}

// Trailer returns the three closing lines.
func Trailer() []string {
	return []string{
		"905" + strings.Repeat(" ", 100),
		"907" + strings.Repeat(" ", 100),
		"999" + strings.Repeat(" ", 100),
	}
}

// Build renders a whole statement with CRLF line endings.
func Build(year, number string, lines ...Line) string {
	rows := []string{Header(year), NumberLine(number)}
	for _, l := range lines {
		rows = append(rows, l.String())
	}
	rows = append(rows, Trailer()...)
	return strings.Join(rows, "\r\n") + "\r\n"
}

// Encode converts s to Windows-1250, the code page the bank writes.
func Encode(t testing.TB, s string) []byte {
	t.Helper()
	out, err := charmap.Windows1250.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return []byte(out)
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// Sample returns a statement with one inflow and one outflow line.
func Sample() string {
	return Build("2023", "042",
		Line{
			Code:         "20",
			IBAN:         "HR1723600001101234565",
			Counterparty: "IVAN HORVAT",
			Address:      "ILICA 1",
			City:         "ZAGREB",
			Date:         "20230615",
			Amount:       Minor(12345),
			Reference:    "HR00 2023-06",
			Description:  "ČLANARINA LIPANJ",
		},
		Line{
			Code:         "10",
			IBAN:         "HR2124840081100000013",
			Counterparty: "SPORTSKA OPREMA D.O.O.",
			Address:      "SAVSKA 5",
			City:         "SPLIT",
			Date:         "20230620",
			Amount:       Minor(500000),
			Reference:    "HR01 118-2023",
			Description:  "DRESOVI",
		},
	)
}

func blank(n int) []rune {
	return []rune(strings.Repeat(" ", n))
}

func put(buf []rune, start, end int, s string) {
	r := []rune(s)
	if len(r) > end-start {
		r = r[:end-start]
	}
	copy(buf[start:], r)
}
