package format

type (
	// FieldKind classifies how a record field is laid out on the wire.
	FieldKind uint8
	// Mode selects the codec path used for a record type.
	Mode uint8
	// EmptyListPolicy selects what decoding does when a nested record list is empty.
	EmptyListPolicy uint8
	// CompressionType identifies the payload compression of a record block.
	CompressionType uint8
)

const (
	KindScalar             FieldKind = 0x1 // KindScalar is a single value packed with its layout token.
	KindText               FieldKind = 0x2 // KindText is a string transcoded into a fixed-width slot.
	KindBytes              FieldKind = 0x3 // KindBytes is a raw fixed-width byte slot.
	KindNestedRecord       FieldKind = 0x4 // KindNestedRecord is a child record encoded in place.
	KindListOfScalar       FieldKind = 0x5 // KindListOfScalar is a fixed-count sequence packed with one token.
	KindListOfNestedRecord FieldKind = 0x6 // KindListOfNestedRecord is a sequence of child records.
)

const (
	ModeDirect   Mode = 0x1 // ModeDirect encodes field by field.
	ModeCompiled Mode = 0x2 // ModeCompiled packs every scalar field with one merged token.
)

const (
	EmptyListWarn   EmptyListPolicy = 0x1 // EmptyListWarn logs a warning and consumes nothing.
	EmptyListIgnore EmptyListPolicy = 0x2 // EmptyListIgnore consumes nothing silently.
	EmptyListError  EmptyListPolicy = 0x3 // EmptyListError fails the decode.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindText:
		return "Text"
	case KindBytes:
		return "Bytes"
	case KindNestedRecord:
		return "NestedRecord"
	case KindListOfScalar:
		return "ListOfScalar"
	case KindListOfNestedRecord:
		return "ListOfNestedRecord"
	default:
		return "Unknown"
	}
}

// HasLayout reports whether fields of this kind carry a layout token.
func (k FieldKind) HasLayout() bool {
	switch k {
	case KindScalar, KindText, KindBytes, KindListOfScalar:
		return true
	default:
		return false
	}
}

// Compilable reports whether fields of this kind can join a compiled layout.
func (k FieldKind) Compilable() bool {
	return k == KindScalar || k == KindText || k == KindBytes
}

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "Direct"
	case ModeCompiled:
		return "Compiled"
	default:
		return "Unknown"
	}
}

func (p EmptyListPolicy) String() string {
	switch p {
	case EmptyListWarn:
		return "Warn"
	case EmptyListIgnore:
		return "Ignore"
	case EmptyListError:
		return "Error"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
