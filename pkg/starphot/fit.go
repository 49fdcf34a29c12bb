package starphot

import(
	"github.com/maorshutman/lm"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FitSEDScale fits a single multiplicative scale of the model SED to
// the catalog photometry within the wavelength window [wlimLo, wlimHi]
// micron, and returns the scaled SED.
func FitSEDScale(model SED, phot []PhotPoint, wlimLo, wlimHi float64) (SED, float64, error) {
	pts := []PhotPoint{}
	for _, p := range phot {
		if p.WaveMicron >= wlimLo && p.WaveMicron <= wlimHi {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return SED{}, 0, errors.Errorf("starphot: no photometry in fit window [%g,%g] micron", wlimLo, wlimHi)
	}

	resFunc := func(dst, params []float64) {
		for i, p := range pts {
			dst[i] = params[0]*model.FluxAt(p.WaveMicron*1e4) - p.FluxJy
		}
	}

	nj := &lm.NumJac{Func: resFunc}
	problem := lm.LMProblem{
		Dim:        1,
		Size:       len(pts),
		Func:       resFunc,
		Jac:        nj.Jac,
		InitParams: []float64{1},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	result, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return SED{}, 0, errors.Wrap(err, "starphot: SED fit")
	}

	scale := result.X[0]
	return model.Scaled(scale), scale, nil
}

// PlotSED writes a diagnostic plot of the fitted SED over the input
// photometry.
func PlotSED(sed SED, phot []PhotPoint, outfile string) error {
	p := plot.New()
	p.Title.Text = "Input Data & SED"
	p.X.Label.Text = "Wavelength (micron)"
	p.Y.Label.Text = "Flux (Jy)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}

	line := plotter.XYs{}
	for i := range sed.WaveA {
		line = append(line, plotter.XY{X: sed.WaveA[i] / 1e4, Y: sed.FluxJy[i]})
	}
	l, err := plotter.NewLine(line)
	if err != nil {
		return errors.Wrap(err, "sed line")
	}
	p.Add(l)
	p.Legend.Add("model", l)

	dots := plotter.XYs{}
	for _, pt := range phot {
		dots = append(dots, plotter.XY{X: pt.WaveMicron, Y: pt.FluxJy})
	}
	s, err := plotter.NewScatter(dots)
	if err != nil {
		return errors.Wrap(err, "sed points")
	}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add("photometry", s)

	return p.Save(6*vg.Inch, 4*vg.Inch, outfile)
}
