package gds_test

import (
	"fmt"
	"time"

	"github.com/maskfab/maskfab/pkg/gds"
	"github.com/maskfab/maskfab/pkg/geom"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
)

func ExampleMarshal() {
	// Serialize a one-cell library. A fixed timestamp makes the byte
	// stream reproducible.
	metal := layer.Layer{Number: 49}
	die := layout.NewComponent("die")
	_ = die.AddPolygon(metal, geom.NewBox(0, 0, 100, 100).Corners())

	stamp := time.Date(2024, 6, 15, 12, 30, 45, 0, time.UTC)
	data, _ := gds.Marshal(die, gds.WithTimestamp(stamp))

	fmt.Printf("HEADER record: % x\n", data[:6])
	fmt.Printf("ENDLIB record: % x\n", data[len(data)-4:])
	// Output:
	// HEADER record: 00 06 00 02 02 58
	// ENDLIB record: 00 04 04 00
}
