package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(body), 0o644))
	return dir
}

func TestLoad_MissingFileIsMissingName(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrMissingName)
}

func TestLoad_UnparsableFileIsMissingName(t *testing.T) {
	dir := writeProject(t, `{"name": "proj", `)
	_, err := Load(dir)
	require.ErrorIs(t, err, ErrMissingName)
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"empty object":        {`{}`, ErrMissingName},
		"blank name":          {`{"name": "  ", "scripts": {"dev": "vite"}}`, ErrMissingName},
		"name not a string":   {`{"name": 7, "scripts": {"dev": "vite"}}`, ErrMissingName},
		"json array":          {`[1,2]`, ErrMissingName},
		"no scripts":          {`{"name": "proj"}`, ErrMissingRunCommand},
		"no dev script":       {`{"name": "proj", "scripts": {"lint": "eslint ."}}`, ErrMissingRunCommand},
		"empty dev list":      {`{"name": "proj", "scripts": {"dev": []}}`, ErrMissingRunCommand},
		"dev list with blank": {`{"name": "proj", "scripts": {"dev": ["vite", ""]}}`, ErrMissingRunCommand},
		"dev not string":      {`{"name": "proj", "scripts": {"dev": {"cmd": "vite"}}}`, ErrMissingRunCommand},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParse_FullDescriptor(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"name": "proj",
		"scripts": {
			"dev": "bun run vite",
			"lint": "eslint .",
			"dev:convex": "bunx convex dev --once",
			"build": "vite build"
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "proj", cfg.Name)
	assert.Equal(t, []string{"bun run vite"}, cfg.RunCommands)
	assert.Equal(t, "eslint .", cfg.LintCommand)
	assert.Equal(t, "bunx convex dev --once", cfg.SyncCommand)
	assert.Equal(t, "vite build", cfg.BuildCommand)
}

func TestParse_SyncFallbackKey(t *testing.T) {
	cfg, err := Parse([]byte(`{"name": "proj", "scripts": {"dev": "vite", "sync": "make gen"}}`))
	require.NoError(t, err)
	assert.Equal(t, "make gen", cfg.SyncCommand)
	assert.Empty(t, cfg.LintCommand)
}

func TestProcessNames(t *testing.T) {
	single, err := Parse([]byte(`{"name": "proj", "scripts": {"dev": "vite"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"proj"}, single.ProcessNames())

	multi, err := Parse([]byte(`{"name": "proj", "scripts": {"dev": ["a", "b"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"proj:1", "proj:2"}, multi.ProcessNames())
	assert.Equal(t, []string{"a", "b"}, multi.RunCommands)

	oneItemList, err := Parse([]byte(`{"name": "proj", "scripts": {"dev": ["a"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"proj"}, oneItemList.ProcessNames())
}

func TestLoad_ReadsFreshEachTime(t *testing.T) {
	dir := writeProject(t, `{"name": "one", "scripts": {"dev": "vite"}}`)
	first, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(`{"name": "two", "scripts": {"dev": "vite"}}`), 0o644))
	second, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "one", first.Name)
	assert.Equal(t, "two", second.Name)
}
