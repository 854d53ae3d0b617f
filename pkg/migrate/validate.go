package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
)

var migrationNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredMarkers = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks the migrations stored in dir.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks every .sql file at the root of fsys: the
// <version>_<name>.sql naming, one file per version, and both goose
// direction markers.
func ValidateFS(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	byVersion := make(map[string]string, len(names))
	for _, name := range names {
		m := migrationNameRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, dup := byVersion[m[1]]; dup {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		byVersion[m[1]] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %q: %w", name, err)
		}
		for _, marker := range requiredMarkers {
			if !strings.Contains(string(body), marker) {
				return fmt.Errorf("migration %q missing %q", name, marker)
			}
		}
	}
	return nil
}
