package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
)

// LoadEnv reads the dotenv file named by settings.EnvFile (relative to dir)
// and returns its variables as sorted KEY=VALUE pairs. No configured file or
// a missing one yields nothing.
func LoadEnv(dir string, settings *Settings) ([]string, error) {
	if settings == nil || settings.EnvFile == "" {
		return nil, nil
	}
	path := settings.EnvFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read env file %s: %w", settings.EnvFile, err)
	}
	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env, nil
}
