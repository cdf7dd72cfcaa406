// Package env loads KEY=VALUE pairs from a local .env file into the
// process environment, so provider URLs with embedded API keys and the
// BRANE_DEBUG toggle can be set without exporting them in the shell.
package env

import (
	"os"
	"strings"
)

// Load reads .env from the current working directory and applies each
// KEY=VALUE line via os.Setenv. Blank lines and #-comments are skipped,
// and surrounding single or double quotes are stripped from values. A
// missing .env file is not an error; the process environment is simply
// used as-is.
func Load() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		os.Setenv(strings.TrimSpace(key), value)
	}
}
