package project

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// migratableKeys are the single-value scalar lines in
// ProjectSettings/ProjectSettings.asset that a legacy-to-VPM migration
// needs to rewrite. The file is YAML but this performs a narrow
// line-based edit rather than a full parse, matching how the source
// touches this file.
var migratableKeys = []string{"productGUID:", "vrchatSettingsFileVersion:"}

// MigrateSettings rewrites the recognized scalar lines of
// ProjectSettings/ProjectSettings.asset under dir, replacing each
// matched key's value. Keys not present in replacements are left
// untouched; every other line keeps its content, and each line of the
// rewritten file ends in "\n" (a CRLF file comes back with LF endings).
func MigrateSettings(dir string, replacements map[string]string) error {
	path := filepath.Join(dir, "ProjectSettings", "ProjectSettings.asset")
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var out bytes.Buffer
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		out.WriteString(rewriteLine(line, replacements))
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	return writeFileAtomic(path, out.Bytes())
}

func rewriteLine(line string, replacements map[string]string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	for _, key := range migratableKeys {
		if !strings.HasPrefix(trimmed, key) {
			continue
		}
		value, ok := replacements[strings.TrimSuffix(key, ":")]
		if !ok {
			return line
		}
		return indent + key + " " + value
	}
	return line
}
