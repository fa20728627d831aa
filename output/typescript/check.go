package typescript

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/nicu/typemockr/errors"
)

// CheckResult holds the result of comparing a fresh generation with the
// files on disk.
type CheckResult struct {
	UpToDate bool

	// Differences lists files whose content differs.
	Differences []string

	// Missing lists generated files absent from the existing directory.
	Missing []string
}

// CompareDirectories compares every file under generatedDir with its
// counterpart under existingDir. Extra files in existingDir are ignored.
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	result := &CheckResult{}

	err := filepath.WalkDir(generatedDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(generatedDir, path)
		if err != nil {
			return err
		}

		fresh, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		current, err := os.ReadFile(filepath.Join(existingDir, rel))
		switch {
		case os.IsNotExist(err):
			result.Missing = append(result.Missing, filepath.ToSlash(rel))
		case err != nil:
			return errors.Wrapf(err, "failed to read %s", filepath.Join(existingDir, rel))
		case !bytes.Equal(fresh, current):
			result.Differences = append(result.Differences, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compare %s with %s", generatedDir, existingDir)
	}

	sort.Strings(result.Differences)
	sort.Strings(result.Missing)
	result.UpToDate = len(result.Differences) == 0 && len(result.Missing) == 0
	return result, nil
}

// Err reports a stale directory as an error wrapping ErrOutOfDate.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%d changed, %d missing", len(r.Differences), len(r.Missing)),
		"run typemockr generate to refresh the mocks")
}
