package supervisor

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/surgent-dev/opencode-config/pkg/lib"
)

// ParseJList validates `pm2 jlist` output into typed records. pm2 may print
// banner lines (for example "[PM2] Spawning PM2 daemon") before the JSON, so
// the array is searched for line by line.
func ParseJList(out string) ([]lib.ProcessRecord, error) {
	body, ok := findJSONArray(out)
	if !ok {
		return nil, &ParseError{Reason: "no JSON array in output"}
	}

	var (
		records []lib.ProcessRecord
		perr    error
		index   int
	)
	gjson.Parse(body).ForEach(func(_, item gjson.Result) bool {
		defer func() { index++ }()
		if !item.IsObject() {
			perr = &ParseError{Reason: fmt.Sprintf("entry %d is not an object", index)}
			return false
		}
		name := item.Get("name")
		if name.Type != gjson.String || name.Str == "" {
			perr = &ParseError{Reason: fmt.Sprintf("entry %d has no name", index)}
			return false
		}
		status := item.Get("pm2_env.status")
		raw := ""
		if status.Type == gjson.String {
			raw = status.Str
		}
		records = append(records, lib.ProcessRecord{
			Name:      name.Str,
			State:     lib.ParseProcessState(raw),
			RawStatus: raw,
			PID:       int(item.Get("pid").Int()),
			Restarts:  int(item.Get("pm2_env.restart_time").Int()),
		})
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return records, nil
}

func findJSONArray(out string) (string, bool) {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "[") {
			continue
		}
		candidate := strings.TrimSpace(strings.Join(lines[i:], "\n"))
		if gjson.Valid(candidate) && gjson.Parse(candidate).IsArray() {
			return candidate, true
		}
	}
	return "", false
}
