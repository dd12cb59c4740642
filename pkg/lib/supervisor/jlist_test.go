package supervisor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/surgent-dev/opencode-config/pkg/lib"
)

func TestParseJList(t *testing.T) {
	out := `[PM2] Spawning PM2 daemon with pm2_home=/home/dev/.pm2
[PM2] PM2 Successfully daemonized
[{"pid":4242,"name":"proj:1","pm2_env":{"status":"online","restart_time":3}},{"pid":0,"name":"proj:2","pm2_env":{"status":"stopped"}},{"name":"other"}]
`
	records, err := ParseJList(out)
	require.NoError(t, err)

	want := []lib.ProcessRecord{
		{Name: "proj:1", State: lib.ProcessStateOnline, RawStatus: "online", PID: 4242, Restarts: 3},
		{Name: "proj:2", State: lib.ProcessStateOther, RawStatus: "stopped"},
		{Name: "other", State: lib.ProcessStateOther},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJList_Empty(t *testing.T) {
	records, err := ParseJList("[]\n")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseJList_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"banner only":      "[PM2] daemon not running\n",
		"object":           `{"name":"proj"}`,
		"truncated":        `[{"name":"proj"`,
		"entry not object": `["proj"]`,
		"missing name":     `[{"pm2_env":{"status":"online"}}]`,
		"numeric name":     `[{"name":5,"pm2_env":{"status":"online"}}]`,
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJList(out)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestOnlineRequiresExactStatus(t *testing.T) {
	records, err := ParseJList(`[{"name":"a","pm2_env":{"status":"Online"}},{"name":"b","pm2_env":{"status":"online "}},{"name":"c","pm2_env":{"status":"online"}}]`)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, r := range records {
		got[r.Name] = r.Online()
	}
	require.Equal(t, map[string]bool{"a": false, "b": false, "c": true}, got)
}
