package store

import (
	"fmt"

	"github.com/finman-dev/finman/internal/model"
)

// ValidationError describes one rule an entry breaks.
type ValidationError struct {
	Index       int // position in the validated slice
	SourceRef   string
	Description string
}

func (e ValidationError) Error() string {
	if e.SourceRef != "" {
		return fmt.Sprintf("entry %d [%s]: %s", e.Index, e.SourceRef, e.Description)
	}
	return fmt.Sprintf("entry %d: %s", e.Index, e.Description)
}

// CodeChecker tests whether a code exists for a kind.
type CodeChecker interface {
	Exists(kind model.Kind, number int) bool
}

// ValidateEntries checks entries before they are written and returns every
// violation found.
func ValidateEntries(entries []Entry, codes CodeChecker) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)

	for i, e := range entries {
		ref := ""
		if e.SourceRef != nil {
			ref = *e.SourceRef
		}
		fail := func(format string, args ...any) {
			errs = append(errs, ValidationError{Index: i, SourceRef: ref, Description: fmt.Sprintf(format, args...)})
		}

		if !e.Kind.Valid() {
			fail("unknown kind %q", e.Kind)
		} else if codes != nil && !codes.Exists(e.Kind, e.Code) {
			fail("%s code %d does not exist", e.Kind, e.Code)
		}

		if !e.Amount.IsPositive() {
			fail("amount %s must be positive", e.Amount.StringFixed(2))
		}
		if e.Date().IsZero() {
			fail("day is not set")
		}

		if e.SourceRef != nil {
			if ref == "" {
				fail("empty source reference")
			} else if j, dup := seen[ref]; dup {
				fail("duplicate source reference (also entry %d)", j)
			} else {
				seen[ref] = i
			}
		}
	}
	return errs
}
