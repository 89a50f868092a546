package importlog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2023, 6, 30, 18, 5, 0, 0, time.UTC)

func testRecord() Record {
	return Record{
		Timestamp: testTime,
		File:      "izvod_042.txt",
		Statement: "042/2023",
		Action:    ActionBooked,
		Lines:     12,
		Details:   "1 line left unbooked, direction unknown",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testRecord()))

	records, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testRecord(), records[0])

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testRecord()))

	second := testRecord()
	second.Action = ActionDuplicate
	second.Lines = 0
	require.NoError(t, Append(dir, second))

	records, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ActionDuplicate, records[1].Action)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_NoFile(t *testing.T) {
	records, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestUnmarshalRecord_Errors(t *testing.T) {
	_, err := UnmarshalRecord([]string{"a"})
	assert.ErrorContains(t, err, "expected 6 fields")

	_, err = UnmarshalRecord([]string{"yesterday", "f", "", "failed", "0", ""})
	assert.ErrorContains(t, err, "parsing timestamp")

	_, err = UnmarshalRecord([]string{testTime.Format(time.RFC3339), "f", "", "failed", "many", ""})
	assert.ErrorContains(t, err, "parsing lines")
}

func TestReadRecords_BadRow(t *testing.T) {
	in := Header + "\n" + "2023-06-30T18:05:00Z,f,,booked,x,\n"
	_, err := readRecords(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
