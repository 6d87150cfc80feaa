// Package archive reads the zip payload in place and extracts selected
// entries to disk.
package archive

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

// MinSize is the smallest buffer that can hold a zip archive: a bare end of
// central directory record.
const MinSize = 22

// ErrNotFound is returned by Find when no entry satisfies the predicate.
var ErrNotFound = errors.New("no matching file in archive")

// Entry describes one file or directory stored in the archive.
type Entry struct {
	Index            int
	Name             string
	CompressedSize   uint64
	UncompressedSize uint64
	IsDir            bool
}

// Reader enumerates and extracts the entries of an in-memory archive.
type Reader struct {
	zr *zip.Reader
	fs afero.Fs
}

// Option configures a Reader.
type Option func(*Reader)

// WithFs directs extraction to fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Reader) {
		r.fs = fs
	}
}

// Open parses the central directory of the size-byte archive readable from r.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	if size < MinSize {
		return nil, setuperr.New(setuperr.KindCorruptArchive, "open archive",
			fmt.Sprintf("archive is %d bytes, smaller than the minimum of %d", size, MinSize))
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, setuperr.Wrap(setuperr.KindCorruptArchive, "open archive", err)
	}

	rd := &Reader{zr: zr, fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(rd)
	}
	return rd, nil
}

// Len returns the number of entries, directories included.
func (r *Reader) Len() int {
	return len(r.zr.File)
}

// Entry returns the entry stored at index i.
func (r *Reader) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(r.zr.File) {
		return Entry{}, fmt.Errorf("entry %d: %w", i, ErrNotFound)
	}
	return entryOf(i, r.zr.File[i]), nil
}

// Entries yields every entry in storage order. Each call starts over.
func (r *Reader) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i, f := range r.zr.File {
			if !yield(entryOf(i, f)) {
				return
			}
		}
	}
}

// List returns all entries in storage order.
func (r *Reader) List() []Entry {
	out := make([]Entry, 0, len(r.zr.File))
	for e := range r.Entries() {
		out = append(out, e)
	}
	return out
}

// Find returns the first entry, in storage order, for which match is true.
func (r *Reader) Find(match func(Entry) bool) (Entry, error) {
	for e := range r.Entries() {
		if match(e) {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// NameHasSuffix matches files (never directories) whose name ends with
// suffix. With fold set the comparison ignores case.
func NameHasSuffix(suffix string, fold bool) func(Entry) bool {
	return func(e Entry) bool {
		if e.IsDir || len(e.Name) < len(suffix) {
			return false
		}
		tail := e.Name[len(e.Name)-len(suffix):]
		if fold {
			return strings.EqualFold(tail, suffix)
		}
		return tail == suffix
	}
}

// ExtractToFile writes the decompressed contents of e to dest, replacing any
// existing file there.
func (r *Reader) ExtractToFile(e Entry, dest string) error {
	op := fmt.Sprintf("extract %s", e.Name)
	if e.Index < 0 || e.Index >= len(r.zr.File) || r.zr.File[e.Index].Name != e.Name {
		return setuperr.New(setuperr.KindExtraction, op, fmt.Sprintf("entry %d no longer exists", e.Index))
	}
	if e.IsDir {
		return setuperr.New(setuperr.KindExtraction, op, "entry is a directory")
	}

	if err := r.fs.Remove(dest); err != nil && !os.IsNotExist(err) {
		return setuperr.Wrap(setuperr.KindExtraction, op, fmt.Errorf("removing existing %s: %w", dest, err))
	}
	if err := r.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return setuperr.Wrap(setuperr.KindExtraction, op, err)
	}

	if err := r.copyEntry(r.zr.File[e.Index], dest); err != nil {
		if rmErr := r.fs.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warnf("failed to remove partial file %s: %v", dest, rmErr)
		}
		return setuperr.Wrap(setuperr.KindExtraction, op, err)
	}

	log.Debugf("extracted %s to %s (%d bytes)", e.Name, dest, e.UncompressedSize)
	return nil
}

// ExtractAll writes every file entry below baseDir, replacing existing files.
// It stops at the first failure; the returned paths always list every file
// written so far so the caller can remove them.
func (r *Reader) ExtractAll(baseDir string) ([]string, error) {
	var written []string
	for e := range r.Entries() {
		if e.IsDir {
			continue
		}
		dest, err := safeJoin(baseDir, e.Name)
		if err != nil {
			return written, setuperr.Wrap(setuperr.KindExtraction, fmt.Sprintf("extract %s", e.Name), err)
		}
		if err := r.ExtractToFile(e, dest); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}

func (r *Reader) copyEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry: %w", err)
	}
	defer rc.Close()

	out, err := r.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}

// safeJoin joins an archive name onto base and rejects names that would land
// outside base.
func safeJoin(base, name string) (string, error) {
	dest := filepath.Join(base, filepath.FromSlash(name))
	rel, err := filepath.Rel(base, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("entry path %q escapes %s", name, base)
	}
	return dest, nil
}

func entryOf(i int, f *zip.File) Entry {
	return Entry{
		Index:            i,
		Name:             f.Name,
		CompressedSize:   f.CompressedSize64,
		UncompressedSize: f.UncompressedSize64,
		IsDir:            f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
	}
}
