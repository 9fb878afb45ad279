// Package report manages the staging report tree and computes destination
// paths for collected files.
package report

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Tree is the per-run staging area. Commands write under StagingDir, the
// redaction pass mirrors it into RedactedDir, and only the redacted tree is
// relocated to the user-chosen output path.
type Tree struct {
	Root        string
	StagingDir  string
	RedactedDir string
	LogPath     string
}

// NewTree creates a fresh staging tree under the system temp directory.
// Callers must arrange for Cleanup to run on every exit path.
func NewTree() (*Tree, error) {
	root, err := os.MkdirTemp("", "devdiag-")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	t := &Tree{
		Root:        root,
		StagingDir:  filepath.Join(root, "report"),
		RedactedDir: filepath.Join(root, "redacted"),
		LogPath:     filepath.Join(root, "diag.log"),
	}
	if err := os.MkdirAll(t.StagingDir, 0o755); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return t, nil
}

// Cleanup removes the whole staging tree.
func (t *Tree) Cleanup() {
	os.RemoveAll(t.Root)
}

// Relocate moves the redacted tree to dst. Rename is attempted first; a
// cross-device move falls back to copying and removing the source.
func (t *Tree) Relocate(dst string) error {
	if err := os.Rename(t.RedactedDir, dst); err == nil {
		return nil
	}
	if err := copyTree(t.RedactedDir, dst); err != nil {
		return err
	}
	return os.RemoveAll(t.RedactedDir)
}

// CopyFile copies a regular file, creating dst's parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}
