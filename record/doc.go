// Package record maps Go struct types onto fixed binary layouts.
//
// Each exported struct field carries a layout token in its pack tag:
//
//	type Reading struct {
//		Sensor string    `pack:"16s,encoding=ascii"`
//		Value  float32   `pack:"<f"`
//		Flags  [4]uint8  `pack:"4B"`
//		Origin Point     // nested record, no tag
//		Points []Point   // list of nested records, no tag
//		cache  []byte    // unexported, not a wire field
//	}
//
// Wire order is declaration order. Schemas are resolved once per type and
// cached process-wide; a Codec is safe for concurrent use.
package record
