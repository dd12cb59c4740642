package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFile holds devrun's own, optional, per-project settings.
const SettingsFile = ".devrun.yaml"

// OnlinePolicy decides what happens to a process the supervisor already reports online.
type OnlinePolicy string

const (
	// PolicyKeep leaves an online process alone.
	PolicyKeep OnlinePolicy = "keep"
	// PolicyRestart flushes its logs and restarts it so edits take effect.
	PolicyRestart OnlinePolicy = "restart"
)

// ParseOnlinePolicy validates a policy name. Empty means PolicyKeep.
func ParseOnlinePolicy(s string) (OnlinePolicy, error) {
	switch OnlinePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyKeep:
		return PolicyKeep, nil
	case PolicyRestart:
		return PolicyRestart, nil
	}
	return "", fmt.Errorf("invalid online policy %q: must be %q or %q", s, PolicyKeep, PolicyRestart)
}

// Duration lets YAML carry values like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

type SupervisorSettings struct {
	Binary string `yaml:"binary"`
}

type SyncSettings struct {
	// Artifact must exist after a successful sync; its absence is a warning.
	Artifact string `yaml:"artifact"`
}

type ReportSettings struct {
	MaxOutputLines int `yaml:"max_output_lines"`
}

type WatchSettings struct {
	Debounce Duration `yaml:"debounce"`
	Ignore   []string `yaml:"ignore"`
}

// Settings models .devrun.yaml.
type Settings struct {
	Supervisor   SupervisorSettings `yaml:"supervisor"`
	Shell        string             `yaml:"shell"`
	OnlinePolicy OnlinePolicy       `yaml:"online_policy"`
	Sync         SyncSettings       `yaml:"sync"`
	Report       ReportSettings     `yaml:"report"`
	EnvFile      string             `yaml:"env_file"`
	Watch        WatchSettings      `yaml:"watch"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Supervisor:   SupervisorSettings{Binary: "pm2"},
		Shell:        "sh",
		OnlinePolicy: PolicyKeep,
		Report:       ReportSettings{MaxOutputLines: 200},
		Watch: WatchSettings{
			Debounce: Duration(500 * time.Millisecond),
			Ignore: []string{
				"node_modules", ".git", "dist", "build", "out", ".next", ".turbo",
				"coverage", "convex/_generated", "*.tsbuildinfo",
			},
		},
	}
}

// Environment variables that override file settings.
const (
	EnvSupervisor   = "DEVRUN_PM2"
	EnvShell        = "DEVRUN_SHELL"
	EnvOnlinePolicy = "DEVRUN_ONLINE_POLICY"
)

// LoadSettings layers defaults, dir/.devrun.yaml and environment overrides.
// A missing file is fine; a malformed one is an error.
func LoadSettings(dir string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", SettingsFile, err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", SettingsFile, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvSupervisor)); v != "" {
		settings.Supervisor.Binary = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvShell)); v != "" {
		settings.Shell = v
	}
	if v := os.Getenv(EnvOnlinePolicy); v != "" {
		settings.OnlinePolicy = OnlinePolicy(v)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate normalizes and checks settings.
func (s *Settings) Validate() error {
	policy, err := ParseOnlinePolicy(string(s.OnlinePolicy))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	s.OnlinePolicy = policy
	if strings.TrimSpace(s.Supervisor.Binary) == "" {
		return errors.New("config: supervisor.binary must not be empty")
	}
	if strings.TrimSpace(s.Shell) == "" {
		return errors.New("config: shell must not be empty")
	}
	if s.Report.MaxOutputLines < 0 {
		return errors.New("config: report.max_output_lines must not be negative")
	}
	if s.Watch.Debounce < 0 {
		return errors.New("config: watch.debounce must not be negative")
	}
	return nil
}
