package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepCommandMovesSelectedCategories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "report.pdf", "photo.JPG", "backup.zip", "song.mp3", "notes.xyz")

	out, _, err := runCLI(t, []string{"sweep", dir, "-c", "4,6,3", "--verbose"}, "")
	require.NoError(t, err)

	requireContains(t, out, "3 moved")
	requireContains(t, out, "report.pdf")

	assert.FileExists(t, filepath.Join(dir, "pdf", "report.pdf"))
	assert.FileExists(t, filepath.Join(dir, "imagens", "photo.JPG"))
	assert.FileExists(t, filepath.Join(dir, "Arquivos Compactados", "backup.zip"))

	// not selected, left in place
	assert.FileExists(t, filepath.Join(dir, "song.mp3"))
	assert.FileExists(t, filepath.Join(dir, "notes.xyz"))
}

func TestSweepCommandTodosRecordsOthers(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.xyz")

	_, _, err := runCLI(t, []string{"sweep", dir, "-c", "todos"}, "")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "outros", "notes.xyz"))
	data, err := os.ReadFile(filepath.Join(dir, "outros", "extensoes.txt"))
	require.NoError(t, err)
	assert.Equal(t, ".xyz\n", string(data))
}

func TestSweepCommandDefaultsIgnoreNothing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.tmp", "~$budget.xlsx", "movie.mp4.part")

	out, _, err := runCLI(t, []string{"sweep", dir, "-c", "todos"}, "")
	require.NoError(t, err)

	requireContains(t, out, "3 moved")
	assert.FileExists(t, filepath.Join(dir, "outros", "notes.tmp"))
	assert.FileExists(t, filepath.Join(dir, "outros", "movie.mp4.part"))
	assert.FileExists(t, filepath.Join(dir, "Planilhas", "~$budget.xlsx"))
}

func TestSweepCommandRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCLI(t, []string{"sweep", dir, "-c", "12"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--categories")

	_, _, err = runCLI(t, []string{"sweep", filepath.Join(dir, "missing"), "-c", "4"}, "")
	require.Error(t, err)
}

func TestCategoriesCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"categories"}, "")
	require.NoError(t, err)

	requireContains(t, out, "Arquivos Compactados")
	requireContains(t, out, ".pdf")
	requireContains(t, out, "outros")
}

func TestCategoriesCommandUsesConfiguredFolderNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirtidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organizer:\n  folderNames:\n    \"4\": Documents PDF\n"), 0o644))

	out, _, err := runCLI(t, []string{"categories"}, path)
	require.NoError(t, err)
	requireContains(t, out, "Documents PDF")
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "dirtidy.yaml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	require.NoError(t, err)
	requireContains(t, out, "Wrote default configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "")
	require.NoError(t, err)

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	require.NoError(t, err)
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowHidesSecret(t *testing.T) {
	t.Setenv("DIRTIDY_JWT_SECRET", "do-not-print")

	out, _, err := runCLI(t, []string{"config", "show"}, "")
	require.NoError(t, err)
	assert.NotContains(t, out, "do-not-print")
	requireContains(t, out, "extensoes.txt")
}

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	requireContains(t, out, "dirtidy dev")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("DIRTIDY_NODE_ID", "node-test")
	t.Setenv("DIRTIDY_JWT_SECRET", "secret")

	out, _, err := runCLI(t, []string{"token", "--subject", "ci"}, "")
	require.NoError(t, err)
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out)
}

func TestSessionsCommandWithoutServer(t *testing.T) {
	_, _, err := runCLI(t, []string{"--server", "http://127.0.0.1:1", "sessions", "list"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestParseIndices(t *testing.T) {
	got, err := parseIndices([]string{"2", "1"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, got)

	_, err = parseIndices([]string{"0"})
	assert.Error(t, err)

	_, err = parseIndices([]string{"x"})
	assert.Error(t, err)
}
