package cplot

import(
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/abworrall/coronstack/pkg/wcs"
)

// The annotation functions each work out their own geometry from the
// WCS and draw straight onto the gg context; they share nothing but the
// drawing surface. Positions are given as fractions of the image size,
// measured from the bottom-left like sky plots expect; the context's
// y-down convention is handled here.

// AnnotateCompass draws N/E arrows at the (xf,yf) fractional position.
func AnnotateCompass(dc *gg.Context, w, h int, W *wcs.WCS, xf, yf, lengthFrac float64) {
	cx := float64(w) * xf
	cy := float64(h) * (1 - yf)
	length := lengthFrac * math.Min(float64(w), float64(h))

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1.5)
	dc.DrawCircle(cx, cy, 2)
	dc.Fill()

	drawCompassArm(dc, cx, cy, W.NorthAngle(), length, "N")
	drawCompassArm(dc, cx, cy, W.EastAngle(), length, "E")
}

func drawCompassArm(dc *gg.Context, cx, cy, angle, length float64, label string) {
	// Pixel-space angle is y-up; the raster is y-down
	tx := cx + length*math.Cos(angle)
	ty := cy - length*math.Sin(angle)

	dc.DrawLine(cx, cy, tx, ty)
	dc.Stroke()

	// Arrow head
	ha := angle + math.Pi*0.85
	hb := angle - math.Pi*0.85
	hl := length * 0.25
	dc.DrawLine(tx, ty, tx+hl*math.Cos(ha), ty-hl*math.Sin(ha))
	dc.DrawLine(tx, ty, tx+hl*math.Cos(hb), ty-hl*math.Sin(hb))
	dc.Stroke()

	lx := cx + length*1.45*math.Cos(angle)
	ly := cy - length*1.45*math.Sin(angle)
	dc.DrawStringAnchored(label, lx, ly, 0.5, 0.5)
}

// AnnotateScaleBar draws a bar of the given angular length, labeled in
// arcsec, at the (xf,yf) fractional position.
func AnnotateScaleBar(dc *gg.Context, w, h int, W *wcs.WCS, arcsec, xf, yf float64) {
	px := arcsec / W.MeanPixelScaleArcsec()

	x0 := float64(w) * xf
	y0 := float64(h) * (1 - yf)

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(3)
	dc.DrawLine(x0, y0, x0+px, y0)
	dc.Stroke()
	dc.DrawStringAnchored(fmt.Sprintf(`%g"`, arcsec), x0+px/2, y0-0.02*float64(h), 0.5, 1)
}

// PixToArcsec and ArcsecToPix are the forward/inverse transforms used to
// label the secondary axes: offsets from the WCS reference pixel.
func PixToArcsec(W *wcs.WCS, axis int, pix float64) float64 {
	sx, sy := W.PixelScales()
	if axis == 0 {
		return (pix - (W.Crpix1 - 1)) * sx * 3600
	}
	return (pix - (W.Crpix2 - 1)) * sy * 3600
}

func ArcsecToPix(W *wcs.WCS, axis int, as float64) float64 {
	sx, sy := W.PixelScales()
	if axis == 0 {
		return as/(sx*3600) + (W.Crpix1 - 1)
	}
	return as/(sy*3600) + (W.Crpix2 - 1)
}

// AnnotateSecondaryAxesArcsec ticks the top and right edges in arcsec
// offsets from the reference pixel.
func AnnotateSecondaryAxesArcsec(dc *gg.Context, w, h int, W *wcs.WCS) {
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)

	ticksX := arcsecTicks(W, 0, float64(w))
	for _, t := range ticksX {
		px := ArcsecToPix(W, 0, t)
		if px < 0 || px > float64(w)-1 {
			continue
		}
		dc.DrawLine(px, 0, px, 5)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%g", t), px, 8, 0.5, 1)
	}

	ticksY := arcsecTicks(W, 1, float64(h))
	for _, t := range ticksY {
		py := ArcsecToPix(W, 1, t)
		if py < 0 || py > float64(h)-1 {
			continue
		}
		// Flip to raster row
		ry := float64(h) - 1 - py
		dc.DrawLine(float64(w)-5, ry, float64(w), ry)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%g", t), float64(w)-8, ry, 1, 0.5)
	}
}

// arcsecTicks picks round tick values covering the axis.
func arcsecTicks(W *wcs.WCS, axis int, extent float64) []float64 {
	lo := PixToArcsec(W, axis, 0)
	hi := PixToArcsec(W, axis, extent-1)
	if lo > hi {
		lo, hi = hi, lo
	}

	span := hi - lo
	step := math.Pow(10, math.Floor(math.Log10(span/4)))
	switch {
	case span/step > 8:
		step *= 2
	case span/step < 3:
		step /= 2
	}

	ticks := []float64{}
	for t := math.Ceil(lo/step) * step; t <= hi; t += step {
		// Kill -0
		if math.Abs(t) < step/1e6 {
			t = 0
		}
		ticks = append(ticks, t)
	}
	return ticks
}
