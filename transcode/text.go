package transcode

import (
	"fmt"
	"strings"

	"github.com/arloliu/packrec/errs"
)

// DecodeText decodes the raw contents of a fixed-width slot and strips
// trailing NUL characters from the decoded string.
func DecodeText(raw []byte, enc *Encoding) (string, error) {
	s, err := enc.Decode(raw)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(s, "\x00"), nil
}

// EncodeText encodes s for a slot of the given width.
//
// The result is not padded; the fixed-width pack pads it. Returns
// ErrEncodingSizeMismatch when the encoded form is longer than the slot.
func EncodeText(s string, enc *Encoding, slot int) ([]byte, error) {
	b, err := enc.Encode(s)
	if err != nil {
		return nil, err
	}
	if len(b) > slot {
		return nil, fmt.Errorf("%w: %q encodes to %d bytes in %s, slot holds %d",
			errs.ErrEncodingSizeMismatch, s, len(b), enc.Name(), slot)
	}

	return b, nil
}
