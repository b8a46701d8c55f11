package render

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ohmkit/resistor-search/internal/bands"
)

// Swatch geometry in pixels.
const (
	swatchWidth  = 180
	swatchHeight = 60
	bodyX        = 30
	bodyY        = 12
	bodyWidth    = 120
	bodyHeight   = 36
	bandWidth    = 14
	bandGap      = 12
	bandInset    = 24
)

// BandSwatch writes an SVG drawing of a resistor body with the three color
// bands encoding the given resistance.
func BandSwatch(w io.Writer, ohms float64) {
	colors := bands.ForValue(ohms)

	canvas := svg.New(w)
	canvas.Start(swatchWidth, swatchHeight)
	canvas.Line(0, swatchHeight/2, swatchWidth, swatchHeight/2, "stroke:"+mutedColor+";stroke-width:3")
	canvas.Roundrect(bodyX, bodyY, bodyWidth, bodyHeight, 8, 8, "fill:#e9d8a6;stroke:"+mutedColor+";stroke-width:2")
	for i, color := range colors {
		x := bodyX + bandInset + i*(bandWidth+bandGap)
		canvas.Rect(x, bodyY, bandWidth, bodyHeight, "fill:"+color+";stroke:#333333;stroke-width:1")
	}
	canvas.End()
}
