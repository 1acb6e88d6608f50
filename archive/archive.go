package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kbukum/diarsplit/errors"
)

// Directory zips every regular file below root and returns the archive
// bytes. Empty directories produce no entries.
func Directory(root string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the zip of root into w.
func Write(w io.Writer, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Archive(err)
	}
	if !info.IsDir() {
		return errors.Archive(&fs.PathError{Op: "archive", Path: root, Err: fs.ErrInvalid})
	}

	zw := zip.NewWriter(w)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		_ = zw.Close()
		return errors.Archive(err)
	}
	if err := zw.Close(); err != nil {
		return errors.Archive(err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Zero Modified keeps the output byte-stable across runs.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// Entries returns the entry names of a zip archive in stored order.
func Entries(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Archive(err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
