package naf

import "github.com/pkg/errors"

// Version identifies the on-disk layout revision of a NAF file.
type Version uint8

const (
	// Version1 is the original layout: the header has no sequence_type
	// byte, and the sequence type is implicitly DNA.
	Version1 Version = 1
	// Version2 adds the sequence_type byte to the header.
	Version2 Version = 2
	// Version3 is the current layout this package writes by default.
	Version3 Version = 3

	// DefaultVersion is the version Writer emits when none is requested.
	DefaultVersion = Version3
)

// Type identifies the kind of residues stored in the Sequence column.
type Type uint8

const (
	TypeDNA     Type = 0
	TypeRNA     Type = 1
	TypeProtein Type = 2
	TypeText    Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeDNA:
		return "DNA"
	case TypeRNA:
		return "RNA"
	case TypeProtein:
		return "Protein"
	case TypeText:
		return "Text"
	default:
		return "unknown"
	}
}

// validate reports ErrInvalidSequenceType for any value outside the four
// defined sequence types.
func (t Type) validate() error {
	if t > TypeText {
		return errors.Wrapf(ErrInvalidSequenceType, "sequence type %d", uint8(t))
	}
	return nil
}

// fourBitEligible reports whether this sequence type is packed with the
// FourBit codec rather than stored as raw bytes. Only free Text uses an
// alphabet too wide for 4-bit packing; DNA, RNA and Protein all go
// through FourBit.
func (t Type) fourBitEligible() bool {
	return t != TypeText
}

// Kind names one of the seven logical columns a NAF archive may carry.
// Order matches the bit order of the flag byte, most significant bit
// first: Title, IDs, Names (the source also calls this column
// "Comments"), Lengths, Mask, Sequence, Quality.
type Kind uint8

const (
	KindTitle Kind = iota
	KindIDs
	KindNames
	KindLengths
	KindMask
	KindSequence
	KindQuality

	numKinds = int(KindQuality) + 1
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindIDs:
		return "IDs"
	case KindNames:
		return "Names"
	case KindLengths:
		return "Lengths"
	case KindMask:
		return "Mask"
	case KindSequence:
		return "Sequence"
	case KindQuality:
		return "Quality"
	default:
		return "Unknown"
	}
}
