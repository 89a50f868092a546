package codes

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/finman-dev/finman/internal/model"
)

const (
	numFields = 3
	colCode   = 0
	colKind   = 1
	colDesc   = 2
)

// ReadCodes reads codes.csv.
func ReadCodes(r io.Reader) ([]model.Code, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading codes CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var codes []model.Code
	for i, rec := range records[1:] {
		c, err := UnmarshalCode(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		codes = append(codes, c)
	}
	return codes, nil
}

// WriteCodes writes codes.csv including the header.
func WriteCodes(w io.Writer, codes []model.Code) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "kind", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range codes {
		if err := cw.Write(MarshalCode(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalCode converts a Code to a CSV row.
func MarshalCode(c model.Code) []string {
	row := make([]string, numFields)
	row[colCode] = strconv.Itoa(c.Number)
	row[colKind] = string(c.Kind)
	row[colDesc] = c.Description
	return row
}

// UnmarshalCode converts a CSV row to a Code.
func UnmarshalCode(record []string) (model.Code, error) {
	if len(record) != numFields {
		return model.Code{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	n, err := strconv.Atoi(record[colCode])
	if err != nil {
		return model.Code{}, fmt.Errorf("parsing code %q: %w", record[colCode], err)
	}
	if n <= 0 {
		return model.Code{}, fmt.Errorf("code %d must be positive", n)
	}

	kind := model.Kind(record[colKind])
	if !kind.Valid() {
		return model.Code{}, fmt.Errorf("unknown kind %q", record[colKind])
	}

	return model.Code{
		Number:      n,
		Kind:        kind,
		Description: record[colDesc],
	}, nil
}
