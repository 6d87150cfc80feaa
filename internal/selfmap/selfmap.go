// Package selfmap maps an executable image read-only and hands out
// bounds-checked views over it, so the payload is never copied onto the heap
// as a whole.
package selfmap

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/squirrel-labs/squirrel-setup/internal/platform"
	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

var (
	// ErrOutOfBounds is returned when a requested view does not lie inside
	// the mapped image.
	ErrOutOfBounds = errors.New("view lies outside the mapped image")
	// ErrClosed is returned when an image is used after Close.
	ErrClosed = errors.New("image is no longer mapped")
)

// Image is a read-only mapping of a whole file.
type Image struct {
	path string
	r    *mmap.ReaderAt
}

// MapSelf maps the executable backing the current process.
func MapSelf() (*Image, error) {
	path, err := platform.ExecutablePath()
	if err != nil {
		return nil, setuperr.Platform("resolve own executable path", err)
	}
	return MapFile(path)
}

// MapFile maps the file at path read-only.
func MapFile(path string) (*Image, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, setuperr.Platform(fmt.Sprintf("map %s", path), err)
	}
	log.Debugf("mapped %s (%d bytes)", path, r.Len())
	return &Image{path: path, r: r}, nil
}

// Path returns the mapped file's path.
func (i *Image) Path() string { return i.path }

// Len returns the mapped length, or 0 once closed.
func (i *Image) Len() int64 {
	if i.r == nil {
		return 0
	}
	return int64(i.r.Len())
}

// Closed reports whether the mapping has been released.
func (i *Image) Closed() bool { return i.r == nil }

// ReadAt implements io.ReaderAt over the mapping.
func (i *Image) ReadAt(p []byte, off int64) (int, error) {
	if i.r == nil {
		return 0, ErrClosed
	}
	return i.r.ReadAt(p, off)
}

// Slice returns a view of length bytes starting at offset. The view is
// rejected unless 0 <= offset, 0 <= length and offset+length <= Len().
func (i *Image) Slice(offset, length int64) (*View, error) {
	if i.r == nil {
		return nil, ErrClosed
	}
	size := i.Len()
	if offset < 0 || length < 0 || offset > size || length > size-offset {
		return nil, fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfBounds, offset, offset, length, size)
	}
	return &View{
		SectionReader: io.NewSectionReader(i, offset, length),
		Offset:        offset,
	}, nil
}

// Close unmaps the image. Calling Close more than once is harmless.
func (i *Image) Close() error {
	if i.r == nil {
		return nil
	}
	err := i.r.Close()
	i.r = nil
	if err != nil {
		return setuperr.Platform(fmt.Sprintf("unmap %s", i.path), err)
	}
	log.Debugf("unmapped %s", i.path)
	return nil
}

// View is a bounded window into an Image. It reads through the mapping and
// becomes unreadable once the image is closed.
type View struct {
	*io.SectionReader
	// Offset is the view's starting position within the image.
	Offset int64
}
