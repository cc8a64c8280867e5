// Package nafconv bridges naf.Record to and from FASTA-shaped text. The
// core naf package accepts only already-parsed records; this package is
// the lexical front end the core's specification leaves external.
package nafconv

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/nafio/naf/naf"
)

// ErrInvalid is returned when a FASTA stream does not begin with '>'.
var ErrInvalid = errors.New("nafconv: invalid FASTA file")

var errEOF = errors.New("nafconv: eof")

// FASTAScanner reads FASTA records into naf.Record values, wrapping
// softmasked (lowercase) runs into MaskRun entries and capitalizing the
// sequence in place via naf.CleanSequence so it is ready for
// naf.Writer.Append. Scanners are not threadsafe.
type FASTAScanner struct {
	b       *bufio.Scanner
	err     error
	pending []byte // the next record's header line, already read
}

// NewFASTAScanner constructs a FASTAScanner over r.
func NewFASTAScanner(r io.Reader) *FASTAScanner {
	s := &FASTAScanner{b: bufio.NewScanner(r)}
	s.b.Buffer(make([]byte, 0, 64*1024), 1<<30)
	return s
}

// Scan reads the next record into rec. It returns false once the stream
// is exhausted or an error occurs; callers must check Err afterward.
func (s *FASTAScanner) Scan(rec *naf.Record) bool {
	if s.err != nil {
		return false
	}

	header := s.pending
	s.pending = nil
	if header == nil {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return false
		}
		header = append([]byte{}, s.b.Bytes()...)
	}
	if len(header) == 0 || header[0] != '>' {
		s.err = ErrInvalid
		return false
	}
	id, comment := splitHeader(header[1:])
	rec.ID = id
	rec.Comment = comment
	rec.Sequence = nil
	rec.Mask = nil

	var seq []byte
	for s.b.Scan() {
		line := s.b.Bytes()
		if len(line) > 0 && line[0] == '>' {
			s.pending = append([]byte{}, line...)
			break
		}
		seq = append(seq, line...)
	}
	if s.pending == nil {
		if err := s.b.Err(); err != nil {
			s.err = err
			return false
		}
	}

	rec.Mask = maskRunsFromCase(seq)
	naf.CleanSequence(seq)
	rec.Sequence = seq
	return true
}

// Err returns the scanning error, if any, after Scan returns false.
func (s *FASTAScanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

func splitHeader(line []byte) (id, comment []byte) {
	i := bytes.IndexByte(line, ' ')
	if i < 0 {
		return line, nil
	}
	return line[:i], line[i+1:]
}

// maskRunsFromCase walks seq and returns the alternating
// unmasked/masked run sequence implied by its case, always starting
// with an unmasked run (possibly zero-length), matching the Writer's
// tie-break for records whose first symbol is masked.
func maskRunsFromCase(seq []byte) []naf.MaskRun {
	if len(seq) == 0 {
		return nil
	}
	var runs []naf.MaskRun
	masked := seq[0] >= 'a' && seq[0] <= 'z'
	var run uint64
	flush := func(nextMasked bool) {
		if masked {
			runs = append(runs, naf.MaskRun{Unmasked: 0, Masked: run})
		} else {
			runs = append(runs, naf.MaskRun{Unmasked: run})
		}
		masked = nextMasked
		run = 0
	}
	for i := 0; i < len(seq); i++ {
		isLower := seq[i] >= 'a' && seq[i] <= 'z'
		if isLower != masked {
			flush(isLower)
		}
		run++
	}
	flush(masked)

	return coalesceMaskRuns(runs)
}

// coalesceMaskRuns merges the alternating single-sided runs produced by
// maskRunsFromCase into the {unmasked, masked} pairs the wire format
// expects, starting with an unmasked run (zero-length if the sequence's
// first symbol is masked).
func coalesceMaskRuns(runs []naf.MaskRun) []naf.MaskRun {
	var out []naf.MaskRun
	i := 0
	// The first emitted run may be a masked one if the sequence starts
	// lowercase; prepend a zero-length unmasked run so every pair
	// begins unmasked.
	if len(runs) > 0 && runs[0].Masked > 0 {
		out = append(out, naf.MaskRun{Unmasked: 0, Masked: runs[0].Masked})
		i = 1
	}
	for ; i+1 < len(runs); i += 2 {
		out = append(out, naf.MaskRun{Unmasked: runs[i].Unmasked, Masked: runs[i+1].Masked})
	}
	if i < len(runs) {
		out = append(out, naf.MaskRun{Unmasked: runs[i].Unmasked})
	}
	return out
}

// FASTAWriter emits naf.Record values as wrapped FASTA text, one
// sequence line of at most LineLength bytes at a time.
type FASTAWriter struct {
	w          io.Writer
	lineLength int
}

// NewFASTAWriter constructs a FASTAWriter writing to w, wrapping
// sequence lines at lineLength bytes (0 disables wrapping).
func NewFASTAWriter(w io.Writer, lineLength int) *FASTAWriter {
	return &FASTAWriter{w: w, lineLength: lineLength}
}

// WriteRecord writes one FASTA record, reconstructing case from rec.Mask
// if present.
func (fw *FASTAWriter) WriteRecord(rec naf.Record) error {
	if _, err := fw.w.Write([]byte{'>'}); err != nil {
		return err
	}
	if _, err := fw.w.Write(rec.ID); err != nil {
		return err
	}
	if len(rec.Comment) > 0 {
		if _, err := fw.w.Write(append([]byte{' '}, rec.Comment...)); err != nil {
			return err
		}
	}
	if _, err := fw.w.Write([]byte{'\n'}); err != nil {
		return err
	}

	seq := applyMaskCase(rec.Sequence, rec.Mask)
	width := fw.lineLength
	if width <= 0 {
		width = len(seq)
		if width == 0 {
			width = 1
		}
	}
	for off := 0; off < len(seq); off += width {
		end := off + width
		if end > len(seq) {
			end = len(seq)
		}
		if _, err := fw.w.Write(seq[off:end]); err != nil {
			return err
		}
		if _, err := fw.w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

func applyMaskCase(seq []byte, runs []naf.MaskRun) []byte {
	if len(runs) == 0 {
		return seq
	}
	out := append([]byte{}, seq...)
	var off uint64
	for _, run := range runs {
		off += run.Unmasked
		for i := uint64(0); i < run.Masked && off+i < uint64(len(out)); i++ {
			out[off+i] = toLower(out[off+i])
		}
		off += run.Masked
	}
	return out
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
