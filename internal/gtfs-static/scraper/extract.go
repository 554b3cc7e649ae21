package scraper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Extract unpacks the zip archive at archivePath into destDir. Entries that
// would land outside destDir are rejected. When every file of the archive
// sits under one top-level folder, that folder is stripped so the feed
// tables end up directly in destDir.
func Extract(archivePath, destDir string) (int, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(destDir)
	prefix := commonFolder(r.File)

	extracted := 0
	for _, f := range r.File {
		name := strings.TrimPrefix(f.Name, prefix)
		if name == "" || strings.HasSuffix(f.Name, "/") {
			continue
		}

		target := filepath.Join(root, filepath.FromSlash(name))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return extracted, fmt.Errorf("archive entry %q escapes destination", f.Name)
		}
		if err := extractFile(f, target); err != nil {
			return extracted, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		extracted++
	}
	return extracted, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// commonFolder returns "name/" when every entry of the archive lives under
// the same top-level folder, or "" otherwise.
func commonFolder(files []*zip.File) string {
	prefix := ""
	for _, f := range files {
		i := strings.Index(f.Name, "/")
		if i < 0 {
			return ""
		}
		top := f.Name[:i+1]
		if top == "/" || top == "./" || top == "../" {
			return ""
		}
		if prefix == "" {
			prefix = top
		} else if top != prefix {
			return ""
		}
	}
	return prefix
}
