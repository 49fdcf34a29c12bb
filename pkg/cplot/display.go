// Package cplot renders annotated quicklook images of coronagraphic
// exposures: asinh-stretched science data with DQ overlay, compass,
// scale bar and arcsec axes, plus a dataset-level multi-page PDF export.
package cplot

import(
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/abworrall/coronstack/pkg/jfits"
	"github.com/abworrall/coronstack/pkg/siaf"
	"github.com/abworrall/coronstack/pkg/wcs"
)

var(
	ErrUncal = errors.New("display does not support stage 0 uncal files; reduce the data further first")
)

type Options struct {
	ScaleBarArcsec float64 // 0 means 1 arcsec
	NoZoomInset    bool
}

// A Figure is one rendered exposure: the annotated raster plus the
// framing plot that carries title and pixel axes.
type Figure struct {
	Plot   *plot.Plot
	Raster image.Image
}

// RenderCoronImage loads, stretches and annotates one exposure. Cube
// products ("rateints"/"calints" files) are averaged over integrations
// first.
func RenderCoronImage(fitsfile string, opts Options) (*Figure, error) {
	base := filepath.Base(fitsfile)
	if strings.Contains(base, "uncal") {
		return nil, errors.Wrap(ErrUncal, base)
	}
	cube := strings.Contains(base, "rateints") || strings.Contains(base, "calints")

	obs, err := jfits.ReadObs(fitsfile)
	if err != nil {
		return nil, err
	}

	var img []float64
	if cube {
		img = obs.Data.MeanImage()
	} else {
		pl := obs.Data.Plane(0)
		img = make([]float64, len(pl))
		for i, v := range pl {
			img[i] = float64(v)
		}
	}
	dq := obs.Pxdq.Plane(0)
	w, h := obs.Data.NX, obs.Data.NY

	// Reasonable min/max for the asinh stretch
	mean, _, stddev := SigmaClippedStats(img)
	norm := NewAsinhNorm(mean-stddev, NaNMax(img))
	cmap := NewInfernoish()

	raster := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			raster.Set(x, y, cmap.At(norm.Apply(img[y*w+x])))
		}
	}
	// Overplot do-not-use pixels
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if dq[y*w+x]&jfits.DQDoNotUse != 0 {
				raster.Set(x, y, cmap.At(0.85))
			}
		}
	}

	W := imageWCS(obs)

	dc := gg.NewContextForRGBA(raster)
	AnnotateCompass(dc, w, h, W, 0.9, 0.07, 0.07)
	sb := opts.ScaleBarArcsec
	if sb == 0 {
		sb = 1
	}
	AnnotateScaleBar(dc, w, h, W, sb, 0.1, 0.07)
	AnnotateSecondaryAxesArcsec(dc, w, h, W)

	dc.SetRGB(1, 1, 1)
	nints, _ := obs.PriHeader.Int("NINTS")
	effexptm, _ := obs.PriHeader.Float("EFFEXPTM")
	ngroups, _ := obs.PriHeader.Int("NGROUPS")
	info := fmt.Sprintf("%s\n%s, %s:%d:%d\n%.2f s",
		obs.PriHeader.Str("TARGPROP"), obs.PriHeader.Str("FILTER"),
		obs.PriHeader.Str("READPATT"), ngroups, nints, effexptm)
	dc.DrawStringWrapped(info, 4, 4, 0, 0, float64(w)/2, 1.3, gg.AlignLeft)

	if cube {
		dc.DrawStringAnchored(fmt.Sprintf("Showing average of %d ints", obs.Data.NInts),
			float64(w)-4, 20, 1, 0)
	}

	if !opts.NoZoomInset {
		drawZoomInset(dc, raster, w, h)
	}

	p := plot.New()
	p.Title.Text = base
	p.X.Label.Text = "Pixels"
	p.Y.Label.Text = "Pixels"
	p.Add(plotter.NewImage(dc.Image(), 0, 0, float64(w), float64(h)))

	return &Figure{Plot: p, Raster: dc.Image()}, nil
}

// DisplayCoronImage renders the exposure and writes it as a PNG.
func DisplayCoronImage(fitsfile, outfile string, opts Options) error {
	fig, err := RenderCoronImage(fitsfile, opts)
	if err != nil {
		return err
	}
	return fig.Plot.Save(8*vg.Inch, 4.5*vg.Inch, outfile)
}

// imageWCS pulls a plain linear WCS out of the exposure. When the SCI
// header carries nothing usable, fall back to a detector-frame transform
// built from the SIAF plate scale.
func imageWCS(obs *jfits.Obs) *wcs.WCS {
	if W, err := wcs.FromHeader(obs.SciHeader); err == nil {
		return W
	}

	scale := siaf.LookupPixscale(obs.PriHeader.Str("INSTRUME"), obs.PriHeader.Str("DETECTOR"))
	deg := scale / 3600
	return &wcs.WCS{
		Crpix1: float64(obs.Data.NX)/2 + 0.5,
		Crpix2: float64(obs.Data.NY)/2 + 0.5,
		CD:     [2][2]float64{{-deg, 0}, {0, deg}},
	}
}

// drawZoomInset copies a 2x blowup of the image center into the top
// right corner.
func drawZoomInset(dc *gg.Context, raster *image.RGBA, w, h int) {
	srcW, srcH := w/6, h/6
	src := image.Rect(w/2-srcW/2, h/2-srcH/2, w/2+srcW/2, h/2+srcH/2)
	dstW, dstH := srcW*2, srcH*2
	dst := image.Rect(w-dstW-4, 30, w-4, 30+dstH)

	zoom := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.NearestNeighbor.Scale(zoom, zoom.Bounds(), raster, src, xdraw.Src, nil)

	dc.DrawImage(zoom, dst.Min.X, dst.Min.Y)
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(dst.Min.X), float64(dst.Min.Y), float64(dstW), float64(dstH))
	dc.Stroke()
}
