package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// ListStatementFiles returns the names of statement files in dir, in lexical
// order. Only regular files with the statement extension are included; an
// empty directory yields an empty slice, not an error.
func ListStatementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ListStatementFiles: reading %q: %w", dir, err)
	}

	// os.ReadDir already sorts by name.
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), StatementExtension) {
			continue
		}
		files = append(files, entry.Name())
	}

	return files, nil
}
