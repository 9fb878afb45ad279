// Package archive packages a finished report directory into a zip file.
package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"devdiag/internal/console"
)

// Zip writes a deflate-compressed archive of dir to out. Entries are stored
// relative to dir's parent so the archive unpacks into a single directory.
// Every added entry is printed.
func Zip(dir, out string, log *console.Logger) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	parent := filepath.Dir(absDir)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	w := zip.NewWriter(f)

	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absDir {
			return nil
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		log.Printf("adding: %s", path)

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		} else {
			hdr.Method = zip.Deflate
		}
		entry, err := w.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(entry, in)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Sync()
}
