package naf

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Magic is the three-byte signature every NAF file begins with.
var Magic = [3]byte{0x01, 0xF9, 0xEC}

// Flags is the header's one-byte column manifest. Bits run MSB to LSB:
// extended_fmt, has_title, has_ids, has_names, has_lengths, has_mask,
// has_sequence, has_quality. A cleared bit means the column is entirely
// absent from the file, not present with zero length.
type Flags uint8

const (
	FlagExtendedFmt Flags = 1 << 7
	FlagTitle       Flags = 1 << 6
	FlagIDs         Flags = 1 << 5
	FlagNames       Flags = 1 << 4
	FlagLengths     Flags = 1 << 3
	FlagMask        Flags = 1 << 2
	FlagSequence    Flags = 1 << 1
	FlagQuality     Flags = 1 << 0
)

// flagForKind maps a Kind to its manifest bit; KindTitle..KindQuality are
// all represented except the reserved extended_fmt bit, which has no
// associated column.
var flagForKind = map[Kind]Flags{
	KindTitle:    FlagTitle,
	KindIDs:      FlagIDs,
	KindNames:    FlagNames,
	KindLengths:  FlagLengths,
	KindMask:     FlagMask,
	KindSequence: FlagSequence,
	KindQuality:  FlagQuality,
}

// orderedKinds lists every column Kind in the fixed wire order: Title,
// IDs, Names, Lengths, Mask, Sequence, Quality.
var orderedKinds = []Kind{KindTitle, KindIDs, KindNames, KindLengths, KindMask, KindSequence, KindQuality}

// Has reports whether bit is set.
func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// With returns f with bit set.
func (f Flags) With(bit Flags) Flags { return f | bit }

// Kinds returns, in wire order, the column Kinds this flag set enables.
func (f Flags) Kinds() []Kind {
	var kinds []Kind
	for _, k := range orderedKinds {
		if f.Has(flagForKind[k]) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// partNames are the list-of-parts manifest's strings for each Kind. The
// Names column is fed by Record.Comment and is sometimes called Comments;
// the manifest spells it "Names".
var partNames = map[Kind]string{
	KindTitle:    "Title",
	KindIDs:      "IDs",
	KindNames:    "Names",
	KindLengths:  "Lengths",
	KindMask:     "Mask",
	KindSequence: "Data",
	KindQuality:  "Quality",
}

// validate checks the implied-flag rules: has_quality requires
// has_sequence, and any of {has_ids, has_names, has_mask, has_quality}
// requires has_lengths.
func (f Flags) validate() error {
	if f.Has(FlagQuality) && !f.Has(FlagSequence) {
		return errors.Wrap(ErrInconsistentManifest, "has_quality without has_sequence")
	}
	if (f.Has(FlagIDs) || f.Has(FlagNames) || f.Has(FlagMask) || f.Has(FlagQuality)) && !f.Has(FlagLengths) {
		return errors.Wrap(ErrInconsistentManifest, "column requiring has_lengths set without it")
	}
	return nil
}

// Header is the fixed-layout prefix of a NAF file: magic, version,
// sequence type (version-gated), flags, name separator, line length, and
// sequence count.
type Header struct {
	Version        Version
	SequenceType   Type
	Flags          Flags
	NameSeparator  byte
	LineLength     uint64
	NumSequences   uint64
}

// WriteTo serializes the header in wire order. Version 1 omits the
// sequence_type byte, per the format's backward-compatible layout.
// WriteTo always emits the list-of-parts manifest, comma-joined and
// NUL-terminated, immediately after the flags/separator/line-length/
// count fields, regardless of version.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(byte(h.Version))
	if h.Version != Version1 {
		buf.WriteByte(byte(h.SequenceType))
	}
	buf.WriteByte(byte(h.Flags))
	buf.WriteByte(h.NameSeparator)
	buf.Write(EncodeVarint(h.LineLength))
	buf.Write(EncodeVarint(h.NumSequences))
	buf.WriteString(h.partList())
	buf.WriteByte(0x00)
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), errors.Wrap(ErrIO, err.Error())
	}
	return int64(n), nil
}

func (h *Header) partList() string {
	kinds := h.Flags.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, partNames[k])
	}
	return strings.Join(names, ",")
}

// ReadHeader parses a Header from r, validating magic, version, sequence
// type, and the list-of-parts manifest against the flag byte. The
// manifest is required for every version, Version1 included.
func ReadHeader(r *bufio.Reader) (*Header, error) {
	var magic [3]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, wrapReadErr(err, "magic")
	}
	if magic != Magic {
		return nil, ErrNotNAF
	}

	versionByte, err := r.ReadByte()
	if err != nil {
		return nil, wrapReadErr(err, "version")
	}
	version := Version(versionByte)
	switch version {
	case Version1, Version2, Version3:
	default:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version byte %d", versionByte)
	}

	h := &Header{Version: version, SequenceType: TypeDNA}
	if version != Version1 {
		typeByte, err := r.ReadByte()
		if err != nil {
			return nil, wrapReadErr(err, "sequence_type")
		}
		h.SequenceType = Type(typeByte)
		if err := h.SequenceType.validate(); err != nil {
			return nil, err
		}
	}

	flagByte, err := r.ReadByte()
	if err != nil {
		return nil, wrapReadErr(err, "flags")
	}
	h.Flags = Flags(flagByte)
	if err := h.Flags.validate(); err != nil {
		return nil, err
	}

	h.NameSeparator, err = r.ReadByte()
	if err != nil {
		return nil, wrapReadErr(err, "name_separator")
	}

	h.LineLength, err = ReadVarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "line_length")
	}

	h.NumSequences, err = ReadVarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "number_of_sequences")
	}

	manifest, err := r.ReadString(0x00)
	if err != nil {
		return nil, wrapReadErr(err, "list-of-parts")
	}
	manifest = strings.TrimSuffix(manifest, "\x00")
	if manifest != h.partList() {
		return nil, errors.Wrapf(ErrInconsistentManifest, "list-of-parts %q disagrees with flags", manifest)
	}

	return h, nil
}

// wrapReadErr classifies a read failure as ErrTruncated (the stream
// simply ran out) or ErrIO (the underlying source failed), tagging it
// with field for context either way.
func wrapReadErr(err error, field string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrTruncated, field)
	}
	return errors.Wrapf(ErrIO, "%s: %v", field, err)
}
