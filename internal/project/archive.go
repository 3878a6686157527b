package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

// ArchiveName returns the on-disk name for an upload: user{uid}s{pid}th{name}.zip, where name is
// the base of filename without a trailing .zip.
func ArchiveName(userID, projectID, filename string) (string, error) {
	const op = "archive name"
	for _, f := range [...]struct{ name, value string }{{"user_id", userID}, {"project_id", projectID}} {
		if f.value == "" {
			return "", apperr.Errorf(apperr.BadRequest, op, "%s is required", f.name)
		}
		if strings.ContainsAny(f.value, `/\`) {
			return "", apperr.Errorf(apperr.BadRequest, op, "%s must not contain path separators", f.name)
		}
	}

	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if len(base) >= 4 && strings.EqualFold(base[len(base)-4:], ".zip") {
		base = base[:len(base)-4]
	}
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", apperr.Errorf(apperr.BadRequest, op, "invalid file name %q", filename)
	}
	return fmt.Sprintf("user%ss%sth%s.zip", userID, projectID, base), nil
}

// saveArchive writes r to dir/name, replacing any previous file. The bytes land in a temporary
// file first so a concurrent reader never sees a partial archive; the last rename wins.
func saveArchive(dir, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create project files dir: %w", err)
	}

	path := filepath.Join(dir, name)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replace archive: %w", err)
	}
	return path, nil
}
