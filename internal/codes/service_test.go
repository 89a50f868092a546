package codes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finman-dev/finman/internal/model"
)

func TestNewService(t *testing.T) {
	defaults := DefaultCodes()
	svc := NewService(defaults)

	assert.Len(t, svc.All(), len(defaults))
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultCodes())

	c, ok := svc.Get(model.KindIncome, 1)
	assert.True(t, ok)
	assert.Equal(t, "Članarine", c.Description)

	c, ok = svc.Get(model.KindOutcome, 1)
	assert.True(t, ok)
	assert.Equal(t, "Najam prostora", c.Description)

	_, ok = svc.Get(model.KindIncome, 42)
	assert.False(t, ok)

	assert.True(t, svc.Exists(model.KindOutcome, 3))
	assert.False(t, svc.Exists(model.KindOutcome, 4))
	assert.False(t, svc.Exists(model.Kind("other"), 1))
}

func TestByKind(t *testing.T) {
	svc := NewService(DefaultCodes())

	income := svc.ByKind(model.KindIncome)
	assert.Len(t, income, 4)
	for _, c := range income {
		assert.Equal(t, model.KindIncome, c.Kind)
	}
	assert.Len(t, svc.ByKind(model.KindOutcome), 4)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewService(DefaultCodes()).Save(dir))

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultCodes(), svc.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	content := "code,kind,description\n1,transfer,Prijenos\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "unknown kind")
}
