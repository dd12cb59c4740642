// Package config loads the project descriptor (surgent.json), devrun's own
// settings (.devrun.yaml) and the optional dotenv file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectFile is the descriptor read from the project root.
const ProjectFile = "surgent.json"

var (
	ErrMissingName       = errors.New(`Missing "name" in surgent.json`)
	ErrMissingRunCommand = errors.New(`Missing "scripts.dev" in surgent.json`)
)

// Script keys looked up in the descriptor. The sync command is read from the
// first key present.
var syncScriptKeys = []string{"dev:convex", "sync"}

const (
	lintScriptKey  = "lint"
	buildScriptKey = "build"
	devScriptKey   = "dev"
)

// ProjectConfig is the validated descriptor. It is read fresh on every
// invocation and never mutated.
type ProjectConfig struct {
	Name         string
	RunCommands  []string
	SyncCommand  string
	LintCommand  string
	BuildCommand string
}

// rawProject is the shape on disk before validation. Scripts stay raw
// because "dev" may be a string or a list.
type rawProject struct {
	Name    json.RawMessage            `json:"name"`
	Scripts map[string]json.RawMessage `json:"scripts"`
}

// Load reads and validates dir/surgent.json. A missing or unparsable file is
// treated as an empty object so the caller gets a domain error instead of an
// I/O or syntax error.
func Load(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		data = nil
	}
	return Parse(data)
}

// Parse validates descriptor bytes. Empty or malformed input is the empty object.
func Parse(data []byte) (*ProjectConfig, error) {
	var raw rawProject
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			raw = rawProject{}
		}
	}

	cfg := &ProjectConfig{Name: strings.TrimSpace(stringValue(raw.Name))}
	if cfg.Name == "" {
		return nil, ErrMissingName
	}

	cfg.RunCommands = commandList(raw.Scripts[devScriptKey])
	if len(cfg.RunCommands) == 0 {
		return nil, ErrMissingRunCommand
	}

	for _, key := range syncScriptKeys {
		if cmd := strings.TrimSpace(stringValue(raw.Scripts[key])); cmd != "" {
			cfg.SyncCommand = cmd
			break
		}
	}
	cfg.LintCommand = strings.TrimSpace(stringValue(raw.Scripts[lintScriptKey]))
	cfg.BuildCommand = strings.TrimSpace(stringValue(raw.Scripts[buildScriptKey]))
	return cfg, nil
}

// stringValue returns the JSON string in msg, or "" for anything else.
func stringValue(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return s
}

// commandList accepts a string or an array of strings. An array containing a
// non-string or blank entry is rejected as a whole.
func commandList(msg json.RawMessage) []string {
	if s := strings.TrimSpace(stringValue(msg)); s != "" {
		return []string{s}
	}
	var list []json.RawMessage
	if len(msg) == 0 || json.Unmarshal(msg, &list) != nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s := strings.TrimSpace(stringValue(item))
		if s == "" {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// ProcessName derives the supervisor name for the i-th (0-based) run command.
// A single command uses the bare project name; several get 1-based suffixes.
func (c *ProjectConfig) ProcessName(i int) string {
	if len(c.RunCommands) > 1 {
		return fmt.Sprintf("%s:%d", c.Name, i+1)
	}
	return c.Name
}

// ProcessNames returns every derived name in declaration order.
func (c *ProjectConfig) ProcessNames() []string {
	names := make([]string, len(c.RunCommands))
	for i := range c.RunCommands {
		names[i] = c.ProcessName(i)
	}
	return names
}
