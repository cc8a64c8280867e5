package naf

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// spillThreshold is the plaintext size, per column, past which a
// stagingBuffer spills to a temporary file rather than growing an
// in-memory buffer without bound. This is what lets Writer.Append handle
// chromosome-scale sequences without the entire column living in RAM at
// once, unlike the reference draft's add_sequence, which required the
// whole sequence up front (see DESIGN.md).
const spillThreshold = 32 << 20 // 32 MiB

// stagingBuffer accumulates one column's pre-compression plaintext across
// repeated Append calls, spilling to a temp file once it grows past
// spillThreshold. It tracks its own length so Writer never needs to
// re-read a spilled file just to report original_size.
type stagingBuffer struct {
	mem  bytes.Buffer
	file *os.File
	size int64
}

func (s *stagingBuffer) Write(p []byte) (int, error) {
	s.size += int64(len(p))
	if s.file != nil {
		n, err := s.file.Write(p)
		if err != nil {
			return n, errors.Wrap(ErrIO, err.Error())
		}
		return n, nil
	}
	if s.mem.Len()+len(p) > spillThreshold {
		if err := s.spill(); err != nil {
			return 0, err
		}
		n, err := s.file.Write(p)
		if err != nil {
			return n, errors.Wrap(ErrIO, err.Error())
		}
		return n, nil
	}
	return s.mem.Write(p)
}

// spill moves the in-memory contents out to a temp file and switches all
// future writes to it.
func (s *stagingBuffer) spill() error {
	f, err := os.CreateTemp("", "naf-column-*.tmp")
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	if _, err := f.Write(s.mem.Bytes()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return errors.Wrap(ErrIO, err.Error())
	}
	s.file = f
	s.mem.Reset()
	return nil
}

// Len reports the total number of bytes written so far.
func (s *stagingBuffer) Len() int64 { return s.size }

// Reader returns a fresh, independent reader over everything written so
// far, seeking a spilled file back to its start.
func (s *stagingBuffer) Reader() (io.Reader, error) {
	if s.file == nil {
		return bytes.NewReader(s.mem.Bytes()), nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	return s.file, nil
}

// Close releases the backing temp file, if one was created.
func (s *stagingBuffer) Close() error {
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	os.Remove(name)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}
