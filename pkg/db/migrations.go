package db

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migration is one SQL migration file
type Migration struct {
	Filename string
	SQL      string
}

// PendingMigrations returns the .sql files in dir that are not in applied, sorted by filename
func PendingMigrations(fsys fs.FS, dir string, applied map[string]bool) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var filenames []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") && !applied[entry.Name()] {
			filenames = append(filenames, entry.Name())
		}
	}
	sort.Strings(filenames)

	migrations := make([]Migration, 0, len(filenames))
	for _, filename := range filenames {
		content, err := fs.ReadFile(fsys, path.Join(dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		migrations = append(migrations, Migration{Filename: filename, SQL: string(content)})
	}

	return migrations, nil
}
