// Package archive packages rendered certificates into a single zip with a
// deterministic, date-stamped top-level name.
package archive

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"errors"
	"fmt"
	"io"
)

// DefaultCompressionLevel matches the deflate level the download surface
// has always used. Compression level is a tunable, not a correctness
// concern.
const DefaultCompressionLevel = 6

// Sentinel errors returned by the packager.
var (
	ErrFinalized     = errors.New("archive: already finalized")
	ErrDuplicateName = errors.New("archive: duplicate entry name")
	ErrEmpty         = errors.New("archive: no entries added")
)

// Packager accumulates named byte payloads and serializes them into one
// compressed container. Add all entries, then call Finalize exactly once.
type Packager struct {
	buf       bytes.Buffer
	zw        *zip.Writer
	names     map[string]bool
	finalized bool
}

// NewPackager creates a packager compressing at the given deflate level;
// levels outside flate's valid range fall back to the default.
func NewPackager(level int) *Packager {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = DefaultCompressionLevel
	}
	p := &Packager{names: make(map[string]bool)}
	p.zw = zip.NewWriter(&p.buf)
	p.zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return p
}

// Add appends one named payload. Names must be distinct: the caller derives
// them per recipient, and an exact duplicate here would silently shadow an
// earlier entry in most unpackers, so it is rejected outright.
func (p *Packager) Add(name string, data []byte) error {
	if p.finalized {
		return ErrFinalized
	}
	if p.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	w, err := p.zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive: creating entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: writing entry %s: %w", name, err)
	}
	p.names[name] = true
	return nil
}

// Len reports how many entries have been added.
func (p *Packager) Len() int {
	return len(p.names)
}

// Finalize closes the container and returns its top-level file name and
// bytes. date is the batch's shared generation date (YYYY-MM-DD). Calling
// Finalize twice, or with no entries, is an error.
func (p *Packager) Finalize(date string) (string, []byte, error) {
	if p.finalized {
		return "", nil, ErrFinalized
	}
	p.finalized = true
	if len(p.names) == 0 {
		return "", nil, ErrEmpty
	}
	if err := p.zw.Close(); err != nil {
		return "", nil, fmt.Errorf("archive: closing zip: %w", err)
	}
	return FileName(date), p.buf.Bytes(), nil
}

// FileName returns the deterministic archive name for a generation date.
func FileName(date string) string {
	return "certificates_" + date + ".zip"
}
