package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lstbot/internal/catalog"
	"lstbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func setupClips(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"medical/medecin.mp4",
		"lieux/hopital.mp4",
		"notes.txt",
	}
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("clip"), 0o644))
	}
	return dir
}

func TestLexiconCheck(t *testing.T) {
	out, err := runCLI(t, "", "lexicon", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "synonyms")
	assert.Contains(t, out, "dictionary_en")
	assert.Contains(t, out, "Lexicon OK")
}

func TestCatalogScan(t *testing.T) {
	dir := setupClips(t)

	out, err := runCLI(t, "", "catalog", "scan", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "medecin")
	assert.Contains(t, out, "lieux/hopital.mp4")
	assert.NotContains(t, out, "notes")
	assert.Contains(t, out, "2 signs")
}

func TestCatalogScan_WritesManifest(t *testing.T) {
	dir := setupClips(t)
	target := filepath.Join(t.TempDir(), "animations.json")

	_, err := runCLI(t, "", "catalog", "scan", dir, "--output", target)
	require.NoError(t, err)

	entries, err := catalog.LoadManifest(os.DirFS(filepath.Dir(target)), filepath.Base(target))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hopital", entries[0].ID)
	assert.Equal(t, "medecin", entries[1].ID)
	assert.Equal(t, []string{"medical"}, entries[1].Tags)
}

func TestTranslate_JSON(t *testing.T) {
	dir := setupClips(t)

	out, err := runCLI(t, "", "--clips", dir, "--json", "translate", "Je vais à l'hôpital")
	require.NoError(t, err)

	var result domain.TranslationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"hôpital"}, result.MatchedWords)
	assert.Equal(t, []string{"vais"}, result.MissingWords)
	assert.Equal(t, 2.5, result.TotalDurationSeconds)
	assert.Equal(t, "1 signe(s) trouvé(s)", result.Message)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Len(t, raw, 5)
}

func TestTranslate_Stdin(t *testing.T) {
	dir := setupClips(t)

	out, err := runCLI(t, "Le docteur", "--clips", dir, "translate")

	require.NoError(t, err)
	assert.Contains(t, out, "docteur")
	assert.Contains(t, out, "medical/medecin.mp4")
	assert.Contains(t, out, "1 signe(s) trouvé(s)")
}

func TestTranslate_English(t *testing.T) {
	dir := setupClips(t)

	out, err := runCLI(t, "", "--clips", dir, "translate", "--lang", "en", "the doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "medecin")
	assert.NotContains(t, out, "Missing")
}

func TestTranslate_Errors(t *testing.T) {
	dir := setupClips(t)

	_, err := runCLI(t, "", "--clips", dir, "translate", "--lang", "xx", "bonjour")
	assert.Error(t, err)

	_, err = runCLI(t, "", "catalog", "import")
	assert.Error(t, err)
}
