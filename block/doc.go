// Package block stores many records of one type in a single buffer.
//
// A block is a section.BlockHeader followed by the records encoded back to
// back, optionally compressed as one payload. Every record in a block has the
// same encoded width, so record i starts at i × width in the raw payload and
// decoders provide O(1) random access.
//
//	codec := record.MustNew[Reading]()
//
//	enc, _ := block.NewEncoder(codec, block.WithCompression(format.CompressionZstd))
//	_ = enc.AddSlice(readings)
//	data, _ := enc.Finish()
//
//	dec, _ := block.NewDecoder(codec, data)
//	for i, r := range dec.All() {
//		fmt.Println(i, r.Sensor, r.Value)
//	}
//
// The header stores the schema fingerprint of the record type; decoding a
// block with a codec of a different layout fails with errs.ErrSchemaMismatch.
package block
