// Package izvod decodes the fixed-width statement ("izvod") files exported
// by Croatian banks.
//
// A statement file has a header line carrying the statement year, a second
// line carrying the statement number, one line per transaction and three
// trailer lines. Every field sits at a fixed character column.
package izvod

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finman-dev/finman/internal/model"
)

// Options configures a Decoder.
type Options struct {
	// CodePage names the byte encoding of the file. Empty means DefaultCodePage.
	CodePage string
	// Lenient skips malformed transaction lines and records them in
	// Statement.Skipped instead of failing the whole decode.
	Lenient bool
}

// Decoder turns statement files into model.Statement values.
type Decoder struct {
	cp      codePage
	lenient bool
}

// New returns a Decoder for opts.
func New(opts Options) (*Decoder, error) {
	cp, err := lookupCodePage(opts.CodePage)
	if err != nil {
		return nil, err
	}
	return &Decoder{cp: cp, lenient: opts.Lenient}, nil
}

// Default returns a strict Decoder using DefaultCodePage.
func Default() *Decoder {
	return &Decoder{cp: codePage{name: DefaultCodePage, cm: charmaps[DefaultCodePage]}}
}

// DecodeFile decodes path with the default decoder.
func DecodeFile(path string) (*model.Statement, error) {
	return Default().DecodeFile(path)
}

// CodePage returns the code page name in use.
func (d *Decoder) CodePage() string { return d.cp.name }

// Lenient reports whether malformed lines are skipped.
func (d *Decoder) Lenient() bool { return d.lenient }

// DecodeFile reads and decodes the statement at path.
func (d *Decoder) DecodeFile(path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	return d.Decode(f, path)
}

// Decode reads all of r and decodes it. source names the input in the
// returned Statement and in errors.
func (d *Decoder) Decode(r io.Reader, source string) (*model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FileAccessError{Path: source, Err: err}
	}

	lines := splitLines(data)
	if len(lines) < headerLines+trailerLines {
		return nil, &ParseError{
			Line:   len(lines),
			Field:  "file",
			Reason: fmt.Sprintf("statement has %d lines, need at least %d", len(lines), headerLines+trailerLines),
		}
	}

	year, err := d.headerField(lines[0], 1, colYear)
	if err != nil {
		return nil, err
	}
	if !isDigits(year, 4) {
		return nil, &ParseError{Line: 1, Field: colYear.name, Value: year, Reason: "expected 4 digits"}
	}

	number, err := d.headerField(lines[1], 2, colNumber)
	if err != nil {
		return nil, err
	}
	if number == "" {
		return nil, &ParseError{Line: 2, Field: colNumber.name, Reason: "empty"}
	}

	st := &model.Statement{Number: number, Year: year, Source: source}

	body := lines[headerLines : len(lines)-trailerLines]
	for i, raw := range body {
		lineNo := i + headerLines + 1

		text, err := d.cp.decode(raw, lineNo)
		if err != nil {
			return nil, err
		}

		line, err := parseLine(text, lineNo)
		if err != nil {
			var pe *ParseError
			if d.lenient && errors.As(err, &pe) {
				st.Skipped = append(st.Skipped, model.SkippedLine{LineNo: lineNo, Err: err})
				continue
			}
			return nil, err
		}

		line.StatementNumber = number
		line.StatementYear = year
		st.Lines = append(st.Lines, line)
	}
	return st, nil
}

func (d *Decoder) headerField(raw []byte, lineNo int, c column) (string, error) {
	text, err := d.cp.decode(raw, lineNo)
	if err != nil {
		return "", err
	}
	v, ok := c.text(text)
	if !ok {
		return "", &ParseError{
			Line:   lineNo,
			Field:  c.name,
			Reason: fmt.Sprintf("line is %d characters, need at least %d", len(text), c.end),
		}
	}
	return v, nil
}

func parseLine(text []rune, lineNo int) (model.StatementLine, error) {
	if len(text) < minBodyWidth {
		return model.StatementLine{}, &ParseError{
			Line:   lineNo,
			Field:  "line",
			Reason: fmt.Sprintf("line is %d characters, need at least %d", len(text), minBodyWidth),
		}
	}

	// Length was checked above, so every column before the description fits.
	field := func(c column) string {
		v, _ := c.text(text)
		return v
	}

	rawDate := field(colDate)
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return model.StatementLine{}, &ParseError{Line: lineNo, Field: colDate.name, Value: rawDate, Reason: "expected YYYYMMDD", Err: err}
	}

	rawAmount := field(colAmount)
	minor, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return model.StatementLine{}, &ParseError{Line: lineNo, Field: colAmount.name, Value: rawAmount, Reason: "expected integer minor units", Err: err}
	}

	return model.StatementLine{
		LineNo:       lineNo,
		Direction:    directionOf(field(colDirection)),
		IBAN:         field(colIBAN),
		Counterparty: field(colCounterparty),
		Address:      field(colAddress),
		City:         field(colCity),
		Date:         date,
		Amount:       decimal.New(minor, -2),
		Reference:    field(colReference),
		Description:  colDescription.clip(text),
	}, nil
}

func directionOf(code string) model.Direction {
	switch code {
	case "10":
		return model.DirectionOutflow
	case "20":
		return model.DirectionInflow
	default:
		return model.DirectionUnknown
	}
}

// splitLines splits on \n, \r\n and lone \r. A terminator at the end of the
// data does not start another line.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i])
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			i++
		}
		data = data[i+1:]
	}
	return lines
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
