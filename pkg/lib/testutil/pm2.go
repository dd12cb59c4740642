// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakePM2 writes a shell script that imitates the pm2 subcommands devrun
// uses and returns its path plus the state file listing started names, one
// per line. Starting any name in failStart exits 1 with an error message.
func FakePM2(t testing.TB, failStart ...string) (bin, state string) {
	t.Helper()
	dir := t.TempDir()
	state = filepath.Join(dir, "state")
	if err := os.WriteFile(state, nil, 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
	script := `#!/bin/sh
state="` + state + `"
fail="` + strings.Join(failStart, " ") + `"
case "$1" in
  jlist)
    echo '[PM2] Spawning PM2 daemon with pm2_home=/tmp/.pm2'
    printf '['
    sep=''
    while read -r name; do
      printf '%s{"name":"%s","pid":4242,"pm2_env":{"status":"online","restart_time":0}}' "$sep" "$name"
      sep=','
    done < "$state"
    printf ']\n'
    ;;
  start)
    for f in $fail; do
      if [ "$f" = "$4" ]; then
        echo "[PM2][ERROR] Script not found: $2" >&2
        exit 1
      fi
    done
    echo "$4" >> "$state"
    echo "[PM2] Starting $2 in fork_mode"
    ;;
  flush|restart)
    grep -qx "$2" "$state" || { echo "[PM2][ERROR] Process $2 not found" >&2; exit 1; }
    echo "[PM2] $1 $2"
    ;;
  *)
    exit 2
    ;;
esac
`
	bin = filepath.Join(dir, "pm2")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake pm2: %v", err)
	}
	return bin, state
}

// Started returns the names recorded in a FakePM2 state file.
func Started(t testing.TB, state string) []string {
	t.Helper()
	data, err := os.ReadFile(state)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	return strings.Fields(string(data))
}

// WriteProject writes surgent.json (and .devrun.yaml when settings is not
// empty) into a fresh temp dir and returns it.
func WriteProject(t testing.TB, project, settings string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "surgent.json"), []byte(project), 0o644); err != nil {
		t.Fatalf("write surgent.json: %v", err)
	}
	if settings != "" {
		if err := os.WriteFile(filepath.Join(dir, ".devrun.yaml"), []byte(settings), 0o644); err != nil {
			t.Fatalf("write .devrun.yaml: %v", err)
		}
	}
	return dir
}
