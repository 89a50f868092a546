package izvod

import "strings"

// column is a fixed character range [start, end) of a statement line.
// The offsets are the bank's export format and must not change.
type column struct {
	name       string
	start, end int
}

var (
	colYear   = column{"statement year", 72, 76}
	colNumber = column{"statement number", 166, 169}

	colDirection    = column{"direction code", 0, 2}
	colIBAN         = column{"iban", 2, 36}
	colCounterparty = column{"counterparty", 36, 106}
	colAddress      = column{"address", 106, 141}
	colCity         = column{"city", 141, 176}
	colDate         = column{"date", 176, 184}
	colAmount       = column{"amount", 228, 242}
	colReference    = column{"reference", 268, 294}
	colDescription  = column{"description", 298, 480}
)

const (
	headerLines  = 2
	trailerLines = 3

	// minBodyWidth is where the description starts. The description itself
	// is clipped to whatever the line holds, since trailing padding is
	// often stripped.
	minBodyWidth = 298

	dateLayout = "20060102"
)

// text returns the trimmed column, or false if the line is too short.
func (c column) text(line []rune) (string, bool) {
	if len(line) < c.end {
		return "", false
	}
	return strings.TrimSpace(string(line[c.start:c.end])), true
}

// clip returns the trimmed column cut at the end of line.
func (c column) clip(line []rune) string {
	if len(line) <= c.start {
		return ""
	}
	end := min(c.end, len(line))
	return strings.TrimSpace(string(line[c.start:end]))
}
