package snapshot

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// File is one entry in a downloadable bundle
type File struct {
	Name string
	Data []byte
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._ -]+`)

// SafeFilename normalizes a sheet or site name into a filename component
func SafeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if cleaned == "" {
		return "site"
	}
	return cleaned
}

// BuildZip packages files into an in-memory ZIP archive
func BuildZip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range files {
		entry, err := w.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write zip entry %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
