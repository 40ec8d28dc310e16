package packrec_test

import (
	"fmt"

	"github.com/arloliu/packrec"
	"github.com/arloliu/packrec/block"
	"github.com/arloliu/packrec/format"
)

type Reading struct {
	Sensor string    `pack:"8s,encoding=ascii"`
	Value  float32   `pack:"<f"`
	Window [3]uint16 `pack:"<HHH"`
}

func ExampleMarshal() {
	buf, err := packrec.Marshal(&Reading{Sensor: "t1", Value: 0.5, Window: [3]uint16{1, 2, 3}})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("% x\n", buf)
	// Output: 74 31 00 00 00 00 00 00 00 00 00 3f 01 00 02 00 03 00
}

func ExampleUnmarshal() {
	buf := []byte("t2\x00\x00\x00\x00\x00\x00\x00\x00\x20\x41\x04\x00\x05\x00\x06\x00")

	var r Reading
	if err := packrec.Unmarshal(buf, &r); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(r.Sensor, r.Value, r.Window)
	// Output: t2 10 [4 5 6]
}

func ExampleCalcsize() {
	size, _ := packrec.Calcsize("<8sf3H")
	fmt.Println(size)
	// Output: 18
}

func ExampleNewBlockEncoder() {
	enc, _ := packrec.NewBlockEncoder[Reading](block.WithCompression(format.CompressionS2))
	for i := range 3 {
		_ = enc.Add(&Reading{Sensor: fmt.Sprintf("t%d", i), Value: float32(i)})
	}
	data, _ := enc.Finish()

	dec, _ := packrec.NewBlockDecoder[Reading](data)
	for i, r := range dec.All() {
		fmt.Println(i, r.Sensor, r.Value)
	}
	// Output:
	// 0 t0 0
	// 1 t1 1
	// 2 t2 2
}
