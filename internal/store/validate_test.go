package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman-dev/finman/internal/codes"
	"github.com/finman-dev/finman/internal/model"
)

func ref(s string) *string { return &s }

func validEntry(sourceRef string) Entry {
	return Entry{
		Kind:      model.KindIncome,
		Code:      1,
		Amount:    amount("10.00"),
		Day:       DayOf(date(2023, 5, 1)),
		SourceRef: ref(sourceRef),
	}
}

func TestValidateEntries_OK(t *testing.T) {
	entries := []Entry{validEntry("2023-001-003"), validEntry("2023-001-004")}
	assert.Empty(t, ValidateEntries(entries, codes.NewService(codes.DefaultCodes())))
}

func TestValidateEntries_Violations(t *testing.T) {
	checker := codes.NewService(codes.DefaultCodes())

	badKind := validEntry("a")
	badKind.Kind = "transfer"

	badCode := validEntry("b")
	badCode.Code = 55

	zero := validEntry("c")
	zero.Amount = amount("0")

	noDay := validEntry("d")
	noDay.Day = DayOf(date(1, 1, 1))

	emptyRef := validEntry("")

	dup := validEntry("a")

	verrs := ValidateEntries([]Entry{badKind, badCode, zero, noDay, emptyRef, dup}, checker)
	require.Len(t, verrs, 6)

	assert.Contains(t, verrs[0].Error(), `unknown kind "transfer"`)
	assert.Contains(t, verrs[1].Error(), "income code 55 does not exist")
	assert.Contains(t, verrs[2].Error(), "must be positive")
	assert.Contains(t, verrs[3].Error(), "day is not set")
	assert.Contains(t, verrs[4].Error(), "empty source reference")
	assert.Contains(t, verrs[5].Error(), "duplicate source reference (also entry 0)")
	assert.Equal(t, 5, verrs[5].Index)
}

func TestValidateEntries_NilChecker(t *testing.T) {
	e := validEntry("x")
	e.Code = 999
	assert.Empty(t, ValidateEntries([]Entry{e}, nil))
}
