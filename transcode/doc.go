// Package transcode converts text fields to and from fixed-width byte slots.
//
// Encodings are looked up by codec name. Names are matched case-insensitively
// and '-', '_' and ' ' are interchangeable, so "UTF-16", "utf_16" and "utf16"
// all resolve to the same encoding. Built-in names:
//
//	utf_8, utf8, u8          UTF-8 (strict)
//	utf_8_sig                UTF-8 with a byte order mark
//	ascii, us_ascii, 646     7-bit ASCII (strict)
//	latin_1, iso_8859_1      ISO 8859-1
//	cp1252, windows_1252     Windows code page 1252
//	utf_16                   UTF-16 with BOM, little-endian when writing
//	utf_16_le, utf_16_be     UTF-16 without BOM
//	utf_32                   UTF-32 with BOM, little-endian when writing
//	utf_32_le, utf_32_be     UTF-32 without BOM
//
// Any other name is resolved through the IANA character set registry
// (for example "shift_jis", "euc-kr" or "koi8-r").
//
// Decoding strips trailing NUL characters after character decoding, so
// multi-byte encodings such as UTF-16 strip whole zero code units rather than
// single bytes.
//
// The encoding used for a field is resolved most specific first: the field
// override, then the record default, then the process-wide default returned
// by DefaultEncoding.
package transcode
