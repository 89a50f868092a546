package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
	DirectionUnknown Direction = "unknown"
)

// Label returns the display label used on statements and exports.
func (d Direction) Label() string {
	switch d {
	case DirectionInflow:
		return "Prihod"
	case DirectionOutflow:
		return "Rashod"
	default:
		return "Nepoznato"
	}
}

// DisplayDateFormat renders dates as DD.MM.YYYY. (trailing period included).
const DisplayDateFormat = "02.01.2006."

// StatementLine is one decoded transaction from a bank statement.
type StatementLine struct {
	LineNo          int // 1-based line in the source file
	Direction       Direction
	IBAN            string
	Counterparty    string
	Address         string
	City            string
	Date            time.Time
	Amount          decimal.Decimal
	Reference       string // poziv na broj
	Description     string
	StatementNumber string
	StatementYear   string
}

// DisplayDate returns the line date as DD.MM.YYYY.
func (l StatementLine) DisplayDate() string {
	return l.Date.Format(DisplayDateFormat)
}

// SkippedLine records a body line rejected by a lenient decode.
type SkippedLine struct {
	LineNo int
	Err    error
}

// Statement is a decoded statement file.
type Statement struct {
	Number  string
	Year    string
	Source  string
	Lines   []StatementLine
	Skipped []SkippedLine
}

// Totals sums line amounts per direction.
func (s *Statement) Totals() (inflow, outflow decimal.Decimal) {
	for _, l := range s.Lines {
		switch l.Direction {
		case DirectionInflow:
			inflow = inflow.Add(l.Amount)
		case DirectionOutflow:
			outflow = outflow.Add(l.Amount)
		}
	}
	return inflow, outflow
}
