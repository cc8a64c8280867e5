package naf

import "errors"

// Sentinel errors returned by this package. Callers should compare with
// errors.Is; wrapped instances carry additional context via
// github.com/pkg/errors.
var (
	// ErrNotNAF is returned when a byte source does not begin with the
	// NAF magic sequence 01 F9 EC.
	ErrNotNAF = errors.New("naf: not a NAF file (bad magic)")

	// ErrUnsupportedVersion is returned when the version byte is not
	// one of 1, 2, or 3.
	ErrUnsupportedVersion = errors.New("naf: unsupported format version")

	// ErrInvalidSequenceType is returned when the sequence_type byte is
	// not one of DNA, RNA, Protein, Text.
	ErrInvalidSequenceType = errors.New("naf: invalid sequence type")

	// ErrInconsistentManifest is returned when the list-of-parts string
	// disagrees with the flag byte, or an implied-flag rule is
	// violated (e.g. has_quality without has_sequence).
	ErrInconsistentManifest = errors.New("naf: flags inconsistent with part manifest")

	// ErrTruncated is returned when the byte source runs out mid-field.
	ErrTruncated = errors.New("naf: truncated stream")

	// ErrOversizeDeclared is returned when a block declares a
	// compressed or original size exceeding the reader's configured
	// limit.
	ErrOversizeDeclared = errors.New("naf: declared block size exceeds limit")

	// ErrCorruptFile is returned when a post-load consistency check
	// fails (length/mask/quality counts disagree).
	ErrCorruptFile = errors.New("naf: corrupt file (consistency check failed)")

	// ErrCompressionError is returned when the underlying block
	// compressor rejects input or produces a malformed frame.
	ErrCompressionError = errors.New("naf: compression codec error")

	// ErrIllegalState is returned on API misuse: appending after
	// Finalize, finalizing twice, or calling Append or Finalize on a
	// Writer after it has failed.
	ErrIllegalState = errors.New("naf: illegal state")

	// ErrSizeMismatch is returned when a decompressed block's length
	// disagrees with its declared original_size.
	ErrSizeMismatch = errors.New("naf: decompressed size mismatch")

	// ErrIO is returned when the underlying byte source or sink fails
	// (a read or write error not attributable to the NAF data itself).
	// Callers distinguish it from format errors with errors.Is.
	ErrIO = errors.New("naf: I/O error")
)
