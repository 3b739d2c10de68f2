package textdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDuplicateMissingTemplate(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Duplicate(filepath.Join(t.TempDir(), "missing.txt"), "Students - row 2 - x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestDuplicateLeavesTemplateUntouched(t *testing.T) {
	template := writeTemplate(t, "Hello <<NAME>>")
	store := NewStore(t.TempDir())

	doc, err := store.Duplicate(template, "Students - row 2 - x")
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceAll("<<NAME>>", "Ana"))
	require.NoError(t, doc.Commit())

	working, err := os.ReadFile(doc.(*Document).Path())
	require.NoError(t, err)
	assert.Equal(t, "Hello Ana", string(working))

	original, err := os.ReadFile(template)
	require.NoError(t, err)
	assert.Equal(t, "Hello <<NAME>>", string(original))
}

func TestExportPDF(t *testing.T) {
	template := writeTemplate(t, "Hello <<NAME>>\nLine two")
	store := NewStore(t.TempDir())

	doc, err := store.Duplicate(template, "Students - row 2 - x")
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceAll("<<NAME>>", "Ana"))
	require.NoError(t, doc.Commit())

	blob, err := doc.ExportPDF()
	require.NoError(t, err)
	assert.True(t, len(blob) > 4)
	assert.Equal(t, "%PDF", string(blob[:4]))
}

func TestDeleteRemovesWorkingFile(t *testing.T) {
	template := writeTemplate(t, "Hello")
	store := NewStore(t.TempDir())

	doc, err := store.Duplicate(template, "Students - row 2 - x")
	require.NoError(t, err)
	path := doc.(*Document).Path()
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, doc.Delete())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeTransientName(t *testing.T) {
	template := writeTemplate(t, "Hello")
	workDir := t.TempDir()
	store := NewStore(workDir)

	doc, err := store.Duplicate(template, "Students/2024 - row 2")
	require.NoError(t, err)
	path := doc.(*Document).Path()
	assert.Equal(t, workDir, filepath.Dir(path))
	assert.NotContains(t, filepath.Base(path), "/")
}
