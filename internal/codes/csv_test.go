package codes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman-dev/finman/internal/model"
)

func TestWriteRead(t *testing.T) {
	in := []model.Code{
		{Number: 1, Kind: model.KindIncome, Description: "Članarine, redovne"},
		{Number: 7, Kind: model.KindOutcome, Description: `Put "Rijeka"`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCodes(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "code,kind,description\n"))

	out, err := ReadCodes(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadCodes_HeaderOnly(t *testing.T) {
	out, err := ReadCodes(strings.NewReader("code,kind,description\n"))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUnmarshalCode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"field count", []string{"1", "income"}, "expected 3 fields"},
		{"not a number", []string{"x", "income", ""}, "parsing code"},
		{"zero", []string{"0", "income", ""}, "must be positive"},
		{"kind", []string{"1", "expense", ""}, "unknown kind"},
	}
	for _, tt := range tests {
		_, err := UnmarshalCode(tt.record)
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), tt.want, tt.name)
	}
}
