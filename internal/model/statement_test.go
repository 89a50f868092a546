package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDirectionLabel(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionInflow, "Prihod"},
		{DirectionOutflow, "Rashod"},
		{DirectionUnknown, "Nepoznato"},
		{Direction(""), "Nepoznato"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dir.Label(), "Label(%q)", tt.dir)
	}
}

func TestDisplayDate(t *testing.T) {
	l := StatementLine{Date: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "15.06.2023.", l.DisplayDate())
}

func TestKindFor(t *testing.T) {
	k, ok := KindFor(DirectionInflow)
	assert.True(t, ok)
	assert.Equal(t, KindIncome, k)

	k, ok = KindFor(DirectionOutflow)
	assert.True(t, ok)
	assert.Equal(t, KindOutcome, k)

	_, ok = KindFor(DirectionUnknown)
	assert.False(t, ok)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Prihod", KindIncome.Label())
	assert.Equal(t, "Rashod", KindOutcome.Label())
	assert.Equal(t, "transfer", Kind("transfer").Label())
}

func TestStatementTotals(t *testing.T) {
	st := &Statement{Lines: []StatementLine{
		{Direction: DirectionInflow, Amount: decimal.RequireFromString("100.50")},
		{Direction: DirectionInflow, Amount: decimal.RequireFromString("0.50")},
		{Direction: DirectionOutflow, Amount: decimal.RequireFromString("20.00")},
		{Direction: DirectionUnknown, Amount: decimal.RequireFromString("999.99")},
	}}
	in, out := st.Totals()
	assert.Equal(t, "101.00", in.StringFixed(2))
	assert.Equal(t, "20.00", out.StringFixed(2))
}
