package recordio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// ErrCorrupt reports a damaged record stream: a checksum mismatch, a
// truncated record or an implausible length prefix.
var ErrCorrupt = errors.New("corrupt record")

// Records above this size fail fast instead of allocating from a
// corrupt length prefix.
const maxRecordSize = 1 << 30

const maskDelta = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// maskedCRC is the rotated and offset CRC32-C used by the record
// framing, so checksums stored alongside data do not collide with
// checksums over that data.
func maskedCRC(b []byte) uint32 {
	c := crc32.Checksum(b, castagnoli)
	return ((c >> 15) | (c << 17)) + maskDelta
}

// Writer frames payloads into a record stream. Each record carries a
// little-endian length, a masked CRC32-C of the length bytes, the
// payload and a masked CRC32-C of the payload.
type Writer struct {
	w *bufio.Writer
	n int
}

// NewWriter returns a Writer framing records onto w. Call Flush before
// relying on the underlying stream being complete.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write frames one payload.
func (w *Writer) Write(payload []byte) error {
	if len(payload) > maxRecordSize {
		return fmt.Errorf("record of %d bytes exceeds limit: %w", len(payload), ErrCorrupt)
	}

	var header [12]byte
	binary.LittleEndian.PutUint64(header[:8], uint64(len(payload)))
	binary.LittleEndian.PutUint32(header[8:], maskedCRC(header[:8]))
	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}

	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], maskedCRC(payload))
	if _, err := w.w.Write(footer[:]); err != nil {
		return err
	}

	w.n++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.n
}

// Flush writes any buffered bytes to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader streams framed records. Next returns io.EOF at a clean end of
// stream and wraps ErrCorrupt for damaged input.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record payload.
func (r *Reader) Next() ([]byte, error) {
	var header [12]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated header: %w", ErrCorrupt)
		}
		return nil, err
	}

	length := binary.LittleEndian.Uint64(header[:8])
	if got, want := binary.LittleEndian.Uint32(header[8:]), maskedCRC(header[:8]); got != want {
		return nil, fmt.Errorf("length checksum %#08x, want %#08x: %w", got, want, ErrCorrupt)
	}
	if length > maxRecordSize {
		return nil, fmt.Errorf("record of %d bytes exceeds limit: %w", length, ErrCorrupt)
	}

	payload := make([]byte, int(length))
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, fmt.Errorf("truncated payload: %w", ErrCorrupt)
	}

	var footer [4]byte
	if _, err := io.ReadFull(r.r, footer[:]); err != nil {
		return nil, fmt.Errorf("truncated checksum: %w", ErrCorrupt)
	}
	if got, want := binary.LittleEndian.Uint32(footer[:]), maskedCRC(payload); got != want {
		return nil, fmt.Errorf("payload checksum %#08x, want %#08x: %w", got, want, ErrCorrupt)
	}

	return payload, nil
}

// FileWriter is a Writer bound to a file it owns.
type FileWriter struct {
	*Writer
	f *os.File
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating record file: %w", err)
	}
	return &FileWriter{Writer: NewWriter(f), f: f}, nil
}

// Close flushes buffered records and closes the file.
func (fw *FileWriter) Close() error {
	if err := fw.Flush(); err != nil {
		fw.f.Close()
		return err
	}
	return fw.f.Close()
}
