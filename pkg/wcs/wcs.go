// Package wcs provides the small slice of FITS world coordinates the
// annotation code needs: a linear transform between pixel coordinates and
// sky offsets, built from header cards. No distortion terms.
package wcs

import(
	"math"

	"github.com/pkg/errors"

	"github.com/abworrall/coronstack/pkg/jfits"
)

var(
	ErrNoWCS = errors.New("no usable WCS keywords in header")
)

// A WCS is a linear pixel->sky transform. CD is in degrees per pixel,
// with row 0 mapping to RA and row 1 to Dec. Cube headers carry a third
// axis; the transform just ignores it.
type WCS struct {
	Crpix1, Crpix2 float64 // 1-based reference pixel
	Crval1, Crval2 float64 // deg
	CD             [2][2]float64
}

// FromHeader builds a WCS from header cards, trying the CD matrix first,
// then PC+CDELT, then bare CDELT. Each strategy that fails falls through
// to the next; if none applies the error names the condition instead of
// being swallowed.
func FromHeader(h jfits.Header) (*WCS, error) {
	w := WCS{}

	w.Crpix1, _ = h.Float("CRPIX1")
	w.Crpix2, _ = h.Float("CRPIX2")
	w.Crval1, _ = h.Float("CRVAL1")
	w.Crval2, _ = h.Float("CRVAL2")

	if cd11, ok := h.Float("CD1_1"); ok {
		w.CD[0][0] = cd11
		w.CD[0][1], _ = h.Float("CD1_2")
		w.CD[1][0], _ = h.Float("CD2_1")
		w.CD[1][1], _ = h.Float("CD2_2")
		return &w, nil
	}

	cdelt1, ok1 := h.Float("CDELT1")
	cdelt2, ok2 := h.Float("CDELT2")
	if !ok1 || !ok2 {
		return nil, ErrNoWCS
	}

	if pc11, ok := h.Float("PC1_1"); ok {
		pc12, _ := h.Float("PC1_2")
		pc21, _ := h.Float("PC2_1")
		pc22, okDiag := h.Float("PC2_2")
		if !okDiag {
			pc22 = 1
		}
		w.CD[0][0] = pc11 * cdelt1
		w.CD[0][1] = pc12 * cdelt1
		w.CD[1][0] = pc21 * cdelt2
		w.CD[1][1] = pc22 * cdelt2
		return &w, nil
	}

	w.CD[0][0] = cdelt1
	w.CD[1][1] = cdelt2
	return &w, nil
}

// PixelScales returns the projection-plane scales along each pixel axis,
// in degrees per pixel.
func (w *WCS)PixelScales() (sx, sy float64) {
	sx = math.Hypot(w.CD[0][0], w.CD[1][0])
	sy = math.Hypot(w.CD[0][1], w.CD[1][1])
	return sx, sy
}

// MeanPixelScaleArcsec is the average plate scale, in arcsec per pixel.
func (w *WCS)MeanPixelScaleArcsec() float64 {
	sx, sy := w.PixelScales()
	return (sx + sy) / 2 * 3600
}

// PixToSky maps a (0-based) pixel position to (RA, Dec) offsets from the
// reference point, in degrees. Good enough for small coronagraphic fields.
func (w *WCS)PixToSky(x, y float64) (dra, ddec float64) {
	dx := x - (w.Crpix1 - 1)
	dy := y - (w.Crpix2 - 1)
	dra = w.CD[0][0]*dx + w.CD[0][1]*dy
	ddec = w.CD[1][0]*dx + w.CD[1][1]*dy
	return dra, ddec
}

// SkyToPix is the inverse of PixToSky.
func (w *WCS)SkyToPix(dra, ddec float64) (x, y float64, err error) {
	det := w.CD[0][0]*w.CD[1][1] - w.CD[0][1]*w.CD[1][0]
	if det == 0 {
		return 0, 0, errors.Wrap(ErrNoWCS, "singular CD matrix")
	}
	dx := (w.CD[1][1]*dra - w.CD[0][1]*ddec) / det
	dy := (-w.CD[1][0]*dra + w.CD[0][0]*ddec) / det
	return dx + (w.Crpix1 - 1), dy + (w.Crpix2 - 1), nil
}

// NorthAngle returns the position angle of celestial north in pixel
// space, radians, measured from the +x axis. EastAngle likewise for east.
func (w *WCS)NorthAngle() float64 {
	x, y := w.unitDir(0, 1)
	return math.Atan2(y, x)
}

func (w *WCS)EastAngle() float64 {
	x, y := w.unitDir(1, 0)
	return math.Atan2(y, x)
}

func (w *WCS)unitDir(dra, ddec float64) (float64, float64) {
	sx, _ := w.PixelScales()
	x0, y0, err := w.SkyToPix(0, 0)
	if err != nil {
		return 0, 1
	}
	x1, y1, err := w.SkyToPix(dra*sx, ddec*sx)
	if err != nil {
		return 0, 1
	}
	dx, dy := x1-x0, y1-y0
	n := math.Hypot(dx, dy)
	if n == 0 {
		return 0, 1
	}
	return dx / n, dy / n
}
