package importer

import (
	"io"

	"github.com/finman-dev/finman/internal/izvod"
	"github.com/finman-dev/finman/internal/model"
)

// IzvodParser reads Croatian fixed-width bank statements.
type IzvodParser struct {
	dec *izvod.Decoder
}

// NewIzvodParser wraps dec; nil means the default decoder.
func NewIzvodParser(dec *izvod.Decoder) *IzvodParser {
	if dec == nil {
		dec = izvod.Default()
	}
	return &IzvodParser{dec: dec}
}

// Format returns the parser name.
func (p *IzvodParser) Format() string { return "izvod" }

// Parse decodes one statement.
func (p *IzvodParser) Parse(r io.Reader, source string) (*model.Statement, error) {
	return p.dec.Decode(r, source)
}
