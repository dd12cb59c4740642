package devenv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgent-dev/opencode-config/pkg/lib/autobuild"
	"github.com/surgent-dev/opencode-config/pkg/lib/config"
	"github.com/surgent-dev/opencode-config/pkg/lib/testutil"
)

const twoProcesses = `{"name":"proj","scripts":{"dev":["sleep 30","sleep 31"],"lint":"true","build":"true"}}`

func TestRunConvergesAndStaysIdempotent(t *testing.T) {
	bin, state := testutil.FakePM2(t)
	t.Setenv(config.EnvSupervisor, bin)
	env, err := Open(testutil.WriteProject(t, twoProcesses, ""), nil)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := env.Run(ctx, false, false)
	require.NoError(t, err)
	assert.Equal(t, "Ran lint: true\nStarted proj:1\nStarted proj:2", first)
	assert.Equal(t, []string{"proj:1", "proj:2"}, testutil.Started(t, state))

	second, err := env.Run(ctx, false, false)
	require.NoError(t, err)
	assert.Equal(t, "Ran lint: true\nproj:1 already online\nproj:2 already online", second)
	assert.Equal(t, []string{"proj:1", "proj:2"}, testutil.Started(t, state))

	third, err := env.Run(ctx, false, true)
	require.NoError(t, err)
	assert.Equal(t, "Ran lint: true\nRestarted proj:1\nRestarted proj:2", third)
}

func TestRunPolicyFromSettings(t *testing.T) {
	bin, _ := testutil.FakePM2(t)
	t.Setenv(config.EnvSupervisor, bin)
	env, err := Open(testutil.WriteProject(t, twoProcesses, "online_policy: restart\n"), nil)
	require.NoError(t, err)

	_, err = env.Run(context.Background(), false, false)
	require.NoError(t, err)
	report, err := env.Run(context.Background(), false, false)
	require.NoError(t, err)
	assert.Contains(t, report, "Restarted proj:1")
}

func TestRunStartFailure(t *testing.T) {
	bin, state := testutil.FakePM2(t, "proj:1")
	t.Setenv(config.EnvSupervisor, bin)
	env, err := Open(testutil.WriteProject(t, twoProcesses, ""), nil)
	require.NoError(t, err)

	report, err := env.Run(context.Background(), false, false)
	require.NoError(t, err)
	assert.Contains(t, report, "FAILED to start proj:1")
	assert.Contains(t, report, "Script not found")
	assert.Contains(t, report, "Started proj:2")
	assert.Equal(t, []string{"proj:2"}, testutil.Started(t, state))
}

func TestRunConfigError(t *testing.T) {
	bin, state := testutil.FakePM2(t)
	t.Setenv(config.EnvSupervisor, bin)
	env, err := Open(testutil.WriteProject(t, `{"scripts":{"dev":"bun run dev"}}`, ""), nil)
	require.NoError(t, err)

	_, err = env.Run(context.Background(), true, false)
	require.ErrorIs(t, err, config.ErrMissingName)
	assert.Empty(t, testutil.Started(t, state))
}

func TestRunUsesEnvFile(t *testing.T) {
	bin, _ := testutil.FakePM2(t)
	t.Setenv(config.EnvSupervisor, bin)
	project := `{"name":"proj","scripts":{"dev":"sleep 30","lint":"test \"$GREETING\" = hello"}}`
	dir := testutil.WriteProject(t, project, "env_file: .env\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GREETING=hello\n"), 0o644))

	env, err := Open(dir, nil)
	require.NoError(t, err)
	report, err := env.Run(context.Background(), false, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report, "Ran lint: "), report)
}

func TestOpenRejectsBadSettings(t *testing.T) {
	_, err := Open(testutil.WriteProject(t, twoProcesses, "online_policy: sometimes\n"), nil)
	require.Error(t, err)

	_, err = Open(testutil.WriteProject(t, twoProcesses, "unknown_key: 1\n"), nil)
	require.Error(t, err)
}

func TestStatus(t *testing.T) {
	bin, _ := testutil.FakePM2(t)
	t.Setenv(config.EnvSupervisor, bin)
	env, err := Open(testutil.WriteProject(t, twoProcesses, ""), nil)
	require.NoError(t, err)
	ctx := context.Background()

	rows, err := env.Status(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, StatusAbsent, rows[0].Status)
	assert.False(t, rows[0].Online())

	require.NoError(t, env.Supervisor.Start(ctx, "proj:1", "sleep 30"))
	rows, err = env.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online", rows[0].Status)
	assert.Equal(t, 4242, rows[0].PID)
	assert.True(t, rows[0].Online())
	assert.Equal(t, StatusAbsent, rows[1].Status)

	out := StatusTable(rows)
	for _, want := range []string{"NAME", "STATUS", "proj:1", "proj:2", "online", "absent", "4242", "sleep 31"} {
		assert.Contains(t, out, want)
	}
}

func TestWatcherNeedsBuildScript(t *testing.T) {
	env, err := Open(testutil.WriteProject(t, `{"name":"proj","scripts":{"dev":"x"}}`, ""), nil)
	require.NoError(t, err)
	_, err = env.Watcher()
	require.ErrorIs(t, err, autobuild.ErrNoBuildCommand)

	env, err = Open(testutil.WriteProject(t, twoProcesses, ""), nil)
	require.NoError(t, err)
	w, err := env.Watcher()
	require.NoError(t, err)
	assert.True(t, w.Trigger(context.Background()))
	assert.EqualValues(t, 1, w.Builds())
}
