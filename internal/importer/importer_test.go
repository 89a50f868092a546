package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman-dev/finman/internal/izvod"
	"github.com/finman-dev/finman/internal/izvod/izvodtest"
	"github.com/finman-dev/finman/internal/model"
)

func TestIzvodParser_Parse(t *testing.T) {
	p := NewIzvodParser(nil)
	data := izvodtest.Encode(t, izvodtest.Sample())

	st, err := p.Parse(strings.NewReader(string(data)), "izvod.txt")
	require.NoError(t, err)
	assert.Equal(t, "042", st.Number)
	assert.Equal(t, "izvod.txt", st.Source)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, model.DirectionInflow, st.Lines[0].Direction)
	assert.Equal(t, "123.45", st.Lines[0].Amount.StringFixed(2))
}

func TestIzvodParser_Lenient(t *testing.T) {
	dec, err := izvod.New(izvod.Options{Lenient: true})
	require.NoError(t, err)
	p := NewIzvodParser(dec)

	s := izvodtest.Build("2023", "1",
		izvodtest.Line{Code: "20", Date: "20230101", Amount: "bad"},
		izvodtest.Line{Code: "20", Date: "20230101", Amount: izvodtest.Minor(1)},
	)
	st, err := p.Parse(strings.NewReader(string(izvodtest.Encode(t, s))), "x")
	require.NoError(t, err)
	assert.Len(t, st.Lines, 1)
	assert.Len(t, st.Skipped, 1)
}

func TestIzvodParser_BadInput(t *testing.T) {
	_, err := NewIzvodParser(nil).Parse(strings.NewReader("garbage\n"), "x")
	var pe *izvod.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestIzvodParser_Format(t *testing.T) {
	assert.Equal(t, "izvod", NewIzvodParser(nil).Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(NewIzvodParser(nil))
	p := r.Get("izvod")
	require.NotNil(t, p)
	assert.Equal(t, "izvod", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(NewIzvodParser(nil))
	assert.NotNil(t, r.Get("Izvod"))
	assert.NotNil(t, r.Get("IZVOD"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewIzvodParser(nil))
	assert.Panics(t, func() { r.Register(NewIzvodParser(nil)) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(izvod.Default())
	assert.NotNil(t, r.Get("izvod"))
}

func TestScan_FindsStatements(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "izvod_1.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IZVOD_2.TXT"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("data"), 0o644))

	files, err := Scan(dir, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "IZVOD_2.TXT", files[0].Name)
	assert.Equal(t, "izvod_1.txt", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
	assert.Equal(t, filepath.Join(dir, "izvod_1.txt"), files[1].Path)
}

func TestScan_MultipleExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.izv"), []byte("x"), 0o644))

	files, err := Scan(dir, []string{".txt", ".IZV"})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.txt"), []byte("data"), 0o644))

	files, err := Scan(dir, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.txt", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"), []string{".txt"})
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "izvod.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	processed := filepath.Join(dir, "processed")
	require.NoError(t, MarkProcessed(src, processed))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(processed, "izvod.txt"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := MarkProcessed(filepath.Join(dir, "gone.txt"), filepath.Join(dir, "processed"))
	assert.ErrorContains(t, err, "moving gone.txt")
}
