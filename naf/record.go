package naf

// MaskRun is one element of a record's alternating unmasked/masked run
// sequence: Unmasked symbols, then Masked symbols. Either length may be
// zero.
type MaskRun struct {
	Unmasked uint64
	Masked   uint64
}

// Record is one named sequence, already parsed from whatever external
// lexical format (FASTA, FASTQ, ...) supplied it. The core format engine
// neither knows nor cares how ID/Comment/Sequence/Quality/Mask were
// derived; it only encodes them into columns and decodes them back.
type Record struct {
	ID      []byte
	Comment []byte
	// Sequence holds the symbols exactly as they should be packed: for
	// DNA/RNA run CleanSequence over it first if soft-masked or
	// non-IUPAC bytes must be normalized (to uppercase or 'N') rather
	// than mapped to '-' implicitly.
	Sequence []byte
	// Quality holds one PHRED byte per Sequence symbol, or is nil if
	// this archive carries no Quality column.
	Quality []byte
	// Mask describes soft-masked (lowercase) runs within Sequence. A
	// nil Mask with a non-empty Sequence is encoded as a single
	// unmasked run spanning the whole sequence.
	Mask []MaskRun
}

// Len returns the record's unmasked symbol count, i.e. the value that
// lands in the Lengths column.
func (r Record) Len() int {
	return len(r.Sequence)
}
