package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const scanChunk = 64 * 1024

var (
	// ErrMarkerNotFound is returned when a file does not contain the marker
	// signature.
	ErrMarkerNotFound = errors.New("bundle marker signature not found")
	// ErrInvalidMarker is returned when a marker is only partially set or
	// points outside the file.
	ErrInvalidMarker = errors.New("bundle marker is invalid")
)

// Find scans r for the marker signature and returns the decoded marker
// together with the file position of the marker's first byte.
func Find(r io.ReaderAt, size int64) (Marker, int64, error) {
	pos, err := indexSignature(r, size)
	if err != nil {
		return Marker{}, -1, err
	}
	start := pos - HeaderSize
	if start < 0 {
		return Marker{}, -1, ErrMarkerNotFound
	}

	var hdr [HeaderSize]byte
	if _, err := r.ReadAt(hdr[:], start); err != nil {
		return Marker{}, -1, fmt.Errorf("reading marker header: %w", err)
	}

	m := Decode(hdr[:])
	if !m.Valid() || m.End() > size {
		return m, start, fmt.Errorf("%w: offset=%d length=%d size=%d", ErrInvalidMarker, m.Offset, m.Length, size)
	}
	return m, start, nil
}

// indexSignature returns the position of the first signature byte. Chunks
// overlap by SignatureSize-1 so a signature spanning a boundary is found.
func indexSignature(r io.ReaderAt, size int64) (int64, error) {
	sig := placeholder[HeaderSize:]
	buf := make([]byte, scanChunk+SignatureSize-1)

	for base := int64(0); base < size; base += scanChunk {
		n := int64(len(buf))
		if base+n > size {
			n = size - base
		}
		read, err := r.ReadAt(buf[:n], base)
		if err != nil && !errors.Is(err, io.EOF) {
			return -1, fmt.Errorf("scanning for bundle marker: %w", err)
		}
		if i := bytes.Index(buf[:read], sig); i >= 0 {
			return base + int64(i), nil
		}
	}
	return -1, ErrMarkerNotFound
}
