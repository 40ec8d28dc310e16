package record

import (
	"testing"
)

type benchReading struct {
	Sensor string  `pack:"16s"`
	Value  float64 `pack:"<d"`
	Count  uint32  `pack:"<I"`
	Flags  uint16  `pack:"<H"`
	OK     bool    `pack:"?"`
}

type benchReadingCompiled struct {
	Sensor string  `pack:"16s"`
	Value  float64 `pack:"<d"`
	Count  uint32  `pack:"<I"`
	Flags  uint16  `pack:"<H"`
	OK     bool    `pack:"?"`
}

func BenchmarkCodec_Encode(b *testing.B) {
	b.Run("direct", func(b *testing.B) {
		codec := MustNew[benchReading]()
		rec := benchReading{Sensor: "temp-01", Value: 21.5, Count: 9, Flags: 3, OK: true}
		buf := make([]byte, 0, 64)

		b.ReportAllocs()
		for b.Loop() {
			buf, _ = codec.Append(buf[:0], &rec)
		}
	})

	b.Run("compiled", func(b *testing.B) {
		codec := MustNew[benchReadingCompiled](WithCompiled())
		rec := benchReadingCompiled{Sensor: "temp-01", Value: 21.5, Count: 9, Flags: 3, OK: true}
		buf := make([]byte, 0, 64)

		b.ReportAllocs()
		for b.Loop() {
			buf, _ = codec.Append(buf[:0], &rec)
		}
	})
}

func BenchmarkCodec_Decode(b *testing.B) {
	b.Run("direct", func(b *testing.B) {
		codec := MustNew[benchReading]()
		buf, _ := codec.Encode(&benchReading{Sensor: "temp-01", Value: 21.5, Count: 9, Flags: 3, OK: true})

		var rec benchReading
		b.ReportAllocs()
		for b.Loop() {
			_, _ = codec.DecodeInto(&rec, buf, 0)
		}
	})

	b.Run("compiled", func(b *testing.B) {
		codec := MustNew[benchReadingCompiled](WithCompiled())
		buf, _ := codec.Encode(&benchReadingCompiled{Sensor: "temp-01", Value: 21.5, Count: 9, Flags: 3, OK: true})

		var rec benchReadingCompiled
		b.ReportAllocs()
		for b.Loop() {
			_, _ = codec.DecodeInto(&rec, buf, 0)
		}
	})
}
