// Package importlog keeps an append-only CSV record of statement imports.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Action says what happened to a statement file.
type Action string

const (
	ActionBooked    Action = "booked"
	ActionDuplicate Action = "duplicate"
	ActionFailed    Action = "failed"
)

// Record is one row in the import log.
type Record struct {
	Timestamp time.Time
	File      string
	Statement string // "number/year", empty if decoding failed
	Action    Action
	Lines     int
	Details   string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,statement,action,lines,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "import-log.csv"
	colTimestamp = 0
	colFile      = 1
	colStatement = 2
	colAction    = 3
	colLines     = 4
	colDetails   = 5
)

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colTimestamp] = r.Timestamp.Format(time.RFC3339)
	row[colFile] = r.File
	row[colStatement] = r.Statement
	row[colAction] = string(r.Action)
	row[colLines] = strconv.Itoa(r.Lines)
	row[colDetails] = r.Details
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	ts, err := time.Parse(time.RFC3339, row[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", row[colTimestamp], err)
	}

	lines, err := strconv.Atoi(row[colLines])
	if err != nil {
		return Record{}, fmt.Errorf("parsing lines %q: %w", row[colLines], err)
	}

	return Record{
		Timestamp: ts,
		File:      row[colFile],
		Statement: row[colStatement],
		Action:    Action(row[colAction]),
		Lines:     lines,
		Details:   row[colDetails],
	}, nil
}

// Path returns the log location under a project root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

// Append writes records to <root>/logs/import-log.csv, creating the file and
// header if needed.
func Append(root string, records ...Record) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all records from the import log, or nil if there is none yet.
func Read(root string) ([]Record, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

func readRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var records []Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
