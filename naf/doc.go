// Package naf implements the NAF (Nucleotide Archive Format) container: a
// compact, compressed, random-access-friendly file format for biological
// sequence collections (DNA, RNA, protein, or free text).
//
// A NAF file packs, in a single stream, the metadata and per-column data of a
// set of named sequences -- the same information a FASTA or FASTQ file would
// hold -- after 4-bit nucleotide packing and variable-length integer encoding,
// followed by general-purpose compression of each column independently.
//
// This package implements the format engine only: the binary layout, the
// VarInt and FourBit codecs, the block model, and stream assembly/
// disassembly around a pluggable block compressor. FASTA/FASTQ lexical
// parsing lives in the sibling nafconv package.
package naf
