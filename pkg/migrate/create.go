package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s: tables carry id BIGSERIAL, created_at and updated_at TIMESTAMPTZ
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <version>_<slug>.sql into dir. The version is taken from now in UTC and
// moved forward one second at a time while it collides with an existing
// file.
func CreateSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	taken, err := existingVersions(dir)
	if err != nil {
		return "", err
	}
	at := now.UTC()
	for taken[at.Format(versionLayout)] {
		at = at.Add(time.Second)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", at.Format(versionLayout), slug))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("migration already exists: %s", path)
		}
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	_, writeErr := fmt.Fprintf(f, migrationTemplate, slug)
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return "", fmt.Errorf("write %q: %w", path, writeErr)
	}
	return path, nil
}

func existingVersions(dir string) (map[string]bool, error) {
	names, err := fs.Glob(os.DirFS(dir), "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", dir, err)
	}
	versions := make(map[string]bool, len(names))
	for _, name := range names {
		if m := migrationNameRe.FindStringSubmatch(name); m != nil {
			versions[m[1]] = true
		}
	}
	return versions, nil
}
