package naf

import (
	"io"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

type writerState int

const (
	writerOpen writerState = iota
	writerAccepting
	writerFinalized
	writerPoisoned
)

// Config configures a Writer. Version, SequenceType, and Flags together
// determine the header this Writer will emit; Codec picks the
// general-purpose block compressor applied to every column.
type Config struct {
	Version       Version
	SequenceType  Type
	Flags         Flags
	LineLength    uint64
	NameSeparator byte
	Codec         Codec
	Limits        Limits
	// Title is the document-level Title column's plaintext. It is
	// ignored unless Flags.Has(FlagTitle).
	Title string
}

// Writer assembles a complete NAF byte stream from a sequence of logical
// records. It follows the Open -> Accepting -> Finalized state machine:
// Append is only legal in Accepting, and Finalize may be called once.
type Writer struct {
	mu    sync.Mutex
	state writerState
	cfg   Config

	ids     *stagingBuffer
	names   *stagingBuffer
	lengths *stagingBuffer
	mask    *stagingBuffer
	seq     *stagingBuffer
	quality *stagingBuffer

	numSequences uint64
}

// NewWriter validates cfg and returns a Writer ready to accept records.
func NewWriter(cfg Config) (*Writer, error) {
	if err := cfg.SequenceType.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Flags.validate(); err != nil {
		return nil, err
	}
	if cfg.Codec == nil {
		return nil, errors.New("naf: Config.Codec is required")
	}
	if cfg.NameSeparator == 0 {
		cfg.NameSeparator = ':'
	}
	w := &Writer{cfg: cfg, state: writerAccepting}
	if cfg.Flags.Has(FlagIDs) {
		w.ids = &stagingBuffer{}
	}
	if cfg.Flags.Has(FlagNames) {
		w.names = &stagingBuffer{}
	}
	if cfg.Flags.Has(FlagLengths) {
		w.lengths = &stagingBuffer{}
	}
	if cfg.Flags.Has(FlagMask) {
		w.mask = &stagingBuffer{}
	}
	if cfg.Flags.Has(FlagSequence) {
		w.seq = &stagingBuffer{}
	}
	if cfg.Flags.Has(FlagQuality) {
		w.quality = &stagingBuffer{}
	}
	return w, nil
}

// Append encodes one record into every enabled column's staging buffer.
// It is only legal while the Writer is in its Accepting state.
func (w *Writer) Append(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != writerAccepting {
		return errors.Wrap(ErrIllegalState, "Append after Finalize")
	}

	if w.ids != nil {
		if _, err := w.ids.Write(append(append([]byte{}, r.ID...), 0x00)); err != nil {
			return w.poison(err)
		}
	}
	if w.names != nil {
		if _, err := w.names.Write(append(append([]byte{}, r.Comment...), 0x00)); err != nil {
			return w.poison(err)
		}
	}
	if w.lengths != nil {
		if _, err := w.lengths.Write(EncodeVarint(uint64(r.Len()))); err != nil {
			return w.poison(err)
		}
	}
	if w.mask != nil {
		if err := w.writeMaskRuns(r); err != nil {
			return w.poison(err)
		}
	}
	if w.seq != nil {
		plaintext := r.Sequence
		if w.cfg.SequenceType.fourBitEligible() {
			plaintext = PackFourBit(r.Sequence)
		}
		if _, err := w.seq.Write(plaintext); err != nil {
			return w.poison(err)
		}
	}
	if w.quality != nil {
		if _, err := w.quality.Write(r.Quality); err != nil {
			return w.poison(err)
		}
	}

	w.numSequences++
	return nil
}

// writeMaskRuns emits r's alternating unmasked/masked VarInt runs. An
// empty sequence contributes nothing. A nil Mask on a non-empty sequence
// is treated as a single unmasked run spanning the whole record, per the
// Record.Mask documentation.
func (w *Writer) writeMaskRuns(r Record) error {
	if r.Len() == 0 {
		return nil
	}
	runs := r.Mask
	if runs == nil {
		runs = []MaskRun{{Unmasked: uint64(r.Len())}}
	}
	for _, run := range runs {
		if _, err := w.mask.Write(EncodeVarint(run.Unmasked)); err != nil {
			return err
		}
		if _, err := w.mask.Write(EncodeVarint(run.Masked)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) poison(err error) error {
	w.state = writerPoisoned
	return errors.Wrap(err, "naf: write pipeline poisoned")
}

// Finalize compresses every enabled column exactly once, then writes the
// header, list-of-parts, and each block (in canonical flag
// order) to sink. On success the Writer transitions to Finalized; on any
// error it transitions to Poisoned and the partial output must be
// discarded.
func (w *Writer) Finalize(sink io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != writerAccepting {
		return errors.Wrap(ErrIllegalState, "Finalize called twice or after poisoning")
	}

	header := &Header{
		Version:       w.cfg.Version,
		SequenceType:  w.cfg.SequenceType,
		Flags:         w.cfg.Flags,
		NameSeparator: w.cfg.NameSeparator,
		LineLength:    w.cfg.LineLength,
		NumSequences:  w.numSequences,
	}
	if header.Version == 0 {
		header.Version = DefaultVersion
	}

	blocks, err := w.compressColumns()
	w.closeStagingBuffers()
	if err != nil {
		w.state = writerPoisoned
		return err
	}

	if _, err := header.WriteTo(sink); err != nil {
		w.state = writerPoisoned
		return errors.Wrap(err, "naf: write header")
	}
	if header.Flags.Has(FlagTitle) {
		titleBlock, err := NewBlock(KindTitle, []byte(w.cfg.Title), w.cfg.Codec)
		if err != nil {
			w.state = writerPoisoned
			return err
		}
		blocks = append([]*Block{titleBlock}, blocks...)
	}
	for _, b := range blocks {
		if _, err := b.WriteTo(sink); err != nil {
			w.state = writerPoisoned
			return errors.Wrapf(err, "naf: write %s block", b.Kind)
		}
	}

	w.state = writerFinalized
	log.Debug.Printf("naf: wrote %d records, %d columns", w.numSequences, len(blocks))
	return nil
}

// compressColumns compresses every enabled non-Title column (Title is
// handled separately in Finalize because its plaintext is not staged
// per-record) in canonical order, returning their Blocks.
func (w *Writer) compressColumns() ([]*Block, error) {
	type column struct {
		kind Kind
		buf  *stagingBuffer
	}
	columns := []column{
		{KindIDs, w.ids},
		{KindNames, w.names},
		{KindLengths, w.lengths},
		{KindMask, w.mask},
		{KindSequence, w.seq},
		{KindQuality, w.quality},
	}

	var blocks []*Block
	for _, c := range columns {
		if c.buf == nil {
			continue
		}
		r, err := c.buf.Reader()
		if err != nil {
			return nil, err
		}
		plaintext, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(ErrIO, "naf: read staged %s column: %v", c.kind, err)
		}
		block, err := NewBlock(c.kind, plaintext, w.cfg.Codec)
		if err != nil {
			return nil, errors.Wrapf(err, "naf: compress %s column", c.kind)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (w *Writer) closeStagingBuffers() {
	for _, b := range []*stagingBuffer{w.ids, w.names, w.lengths, w.mask, w.seq, w.quality} {
		if b != nil {
			b.Close()
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
