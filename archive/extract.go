package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/diarsplit/errors"
)

// Extract unpacks a zip archive into dest, creating it if needed. Entries
// that would resolve outside dest are rejected.
func Extract(data []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Archive(err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Archive(err)
	}
	base, err := filepath.Abs(dest)
	if err != nil {
		return errors.Archive(err)
	}

	for _, f := range zr.File {
		target := filepath.Join(base, filepath.FromSlash(f.Name))
		if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
			return errors.Archive(fmt.Errorf("entry %q escapes destination", f.Name))
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Archive(err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return errors.Archive(err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
