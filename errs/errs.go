// Package errs defines the sentinel errors returned by packrec packages.
//
// Errors are wrapped with context using fmt.Errorf and the %w verb, so callers
// should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrBufferUnderflow) {
//	    // the buffer ended before the record did
//	}
package errs

import "errors"

// Codec errors.
var (
	// ErrBufferUnderflow indicates that decoding needed more bytes than the buffer holds.
	ErrBufferUnderflow = errors.New("buffer underflow")
	// ErrLayoutMismatch indicates that the number of values does not match the layout token.
	ErrLayoutMismatch = errors.New("layout mismatch")
	// ErrEncodingSizeMismatch indicates that a text or bytes value does not fit its fixed-width slot.
	ErrEncodingSizeMismatch = errors.New("encoded value exceeds slot width")
	// ErrInvalidLayoutToken indicates a layout token that cannot be parsed.
	ErrInvalidLayoutToken = errors.New("invalid layout token")
	// ErrValueOutOfRange indicates a value that cannot be represented by its layout code or field type.
	ErrValueOutOfRange = errors.New("value out of range")
	// ErrTypeMismatch indicates a Go value whose type cannot be converted for a layout code.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNegativeOffset indicates a negative buffer offset.
	ErrNegativeOffset = errors.New("negative offset")
)

// Text errors.
var (
	ErrUnknownEncoding = errors.New("unknown text encoding")
	ErrTextEncode      = errors.New("text encode failed")
	ErrTextDecode      = errors.New("text decode failed")
)

// Schema and registry errors.
var (
	// ErrNotStruct indicates that a record type is not a struct.
	ErrNotStruct = errors.New("record type is not a struct")
	// ErrNilRecord indicates a nil record pointer.
	ErrNilRecord = errors.New("nil record")
	// ErrAlreadyRegistered indicates a record type already resolved with different options.
	ErrAlreadyRegistered = errors.New("record type already registered with different options")
	// ErrUnknownField indicates a registration option naming a field the record type does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyRecordList indicates decoding into an empty list of nested records
	// under the EmptyListError policy.
	ErrEmptyRecordList = errors.New("empty nested record list on decode")
	// ErrRecursiveRecord indicates a record type that contains itself through
	// nested record fields, which has no finite encoding.
	ErrRecursiveRecord = errors.New("record type contains itself")
)

// Block errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid header size")
	ErrInvalidMagicNumber  = errors.New("invalid magic number")
	ErrInvalidHeaderFlags  = errors.New("invalid header flags")
	ErrSchemaMismatch      = errors.New("schema fingerprint mismatch")
	ErrChecksumMismatch    = errors.New("payload checksum mismatch")
	ErrVariableWidth       = errors.New("records in a block must share one encoded width")
	ErrRecordCountMismatch = errors.New("record count mismatch")
	ErrIndexOutOfRange     = errors.New("record index out of range")
	ErrBlockFinished       = errors.New("block encoder already finished")
)
