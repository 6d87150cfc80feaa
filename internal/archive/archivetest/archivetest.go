// Package archivetest builds small zip payloads for tests.
package archivetest

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
)

// File is one entry to place in a test archive. A Name ending in "/" makes a
// directory entry.
type File struct {
	Name string
	Body []byte
	// Store skips compression.
	Store bool
}

// Build returns the bytes of a zip archive holding files in order.
func Build(t testing.TB, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		method := zip.Deflate
		if f.Store {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.Name, Method: method})
		if err != nil {
			t.Fatalf("adding %s: %v", f.Name, err)
		}
		if len(f.Body) == 0 {
			continue
		}
		if _, err := fw.Write(f.Body); err != nil {
			t.Fatalf("writing %s: %v", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}
