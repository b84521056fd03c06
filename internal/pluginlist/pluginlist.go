// SPDX-License-Identifier: MPL-2.0

// Package pluginlist parses the human-edited plugin list consumed by the
// plugin stage: plain UTF-8 text, one plugin identifier per line.
package pluginlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CommentMarker starts a comment line.
const CommentMarker = "#"

// Load reads the plugin list at path and returns the identifiers in file
// order. Blank lines and lines whose first non-whitespace character is the
// comment marker are skipped; all other lines are trimmed and kept verbatim.
//
// A missing file means "nothing to install": Load returns an empty list and
// no error. Any other read failure is reported.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plugin list '%s': %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var plugins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentMarker) {
			continue
		}
		plugins = append(plugins, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plugin list '%s': %w", path, err)
	}

	return plugins, nil
}
