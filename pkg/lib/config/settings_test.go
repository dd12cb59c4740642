package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSupervisor, "")
	t.Setenv(EnvShell, "")
	t.Setenv(EnvOnlinePolicy, "")
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearSettingsEnv(t)
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)
	assert.Equal(t, "pm2", s.Supervisor.Binary)
	assert.Equal(t, PolicyKeep, s.OnlinePolicy)
	assert.Subset(t, s.Watch.Ignore, []string{"out", ".turbo", "*.tsbuildinfo"})
}

func TestLoadSettings_FileOverrides(t *testing.T) {
	clearSettingsEnv(t)
	dir := t.TempDir()
	body := `
supervisor:
  binary: /opt/pm2/bin/pm2
online_policy: restart
sync:
  artifact: convex/_generated/api.d.ts
report:
  max_output_lines: 20
env_file: .env.local
watch:
  debounce: 2s
  ignore: [node_modules]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0o644))

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "/opt/pm2/bin/pm2", s.Supervisor.Binary)
	assert.Equal(t, PolicyRestart, s.OnlinePolicy)
	assert.Equal(t, "convex/_generated/api.d.ts", s.Sync.Artifact)
	assert.Equal(t, 20, s.Report.MaxOutputLines)
	assert.Equal(t, ".env.local", s.EnvFile)
	assert.Equal(t, Duration(2*time.Second), s.Watch.Debounce)
	assert.Equal(t, []string{"node_modules"}, s.Watch.Ignore)
	assert.Equal(t, "sh", s.Shell)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("online_policy: keep\n"), 0o644))
	t.Setenv(EnvSupervisor, "fake-pm2")
	t.Setenv(EnvShell, "bash")
	t.Setenv(EnvOnlinePolicy, "RESTART")

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "fake-pm2", s.Supervisor.Binary)
	assert.Equal(t, "bash", s.Shell)
	assert.Equal(t, PolicyRestart, s.OnlinePolicy)
}

func TestLoadSettings_Errors(t *testing.T) {
	clearSettingsEnv(t)
	cases := map[string]string{
		"unknown key":    "colour: blue\n",
		"bad policy":     "online_policy: sometimes\n",
		"bad duration":   "watch:\n  debounce: soon\n",
		"not yaml":       "supervisor: [\n",
		"negative lines": "report:\n  max_output_lines: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0o644))
			_, err := LoadSettings(dir)
			require.Error(t, err)
		})
	}
}

func TestLoadSettings_CommentOnlyFile(t *testing.T) {
	clearSettingsEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("# nothing yet\n"), 0o644))
	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("B=2\nA=1\n# comment\n"), 0o644))

	env, err := LoadEnv(dir, &Settings{EnvFile: ".env"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A=1", "B=2"}, env)

	env, err = LoadEnv(dir, &Settings{EnvFile: ".env.missing"})
	require.NoError(t, err)
	assert.Empty(t, env)

	env, err = LoadEnv(dir, &Settings{})
	require.NoError(t, err)
	assert.Nil(t, env)
}
