package cplot

import(
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// SigmaClippedStats returns the mean, median and standard deviation of
// the values after iterative 3-sigma clipping, ignoring NaNs.
func SigmaClippedStats(vals []float64) (mean, median, stddev float64) {
	kept := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}

	for iter := 0; iter < 5; iter++ {
		mean = stat.Mean(kept, nil)
		stddev = stat.StdDev(kept, nil)
		if stddev == 0 {
			break
		}
		next := kept[:0]
		for _, v := range kept {
			if math.Abs(v-mean) <= 3*stddev {
				next = append(next, v)
			}
		}
		if len(next) == len(kept) || len(next) < 2 {
			kept = next
			break
		}
		kept = next
	}

	if len(kept) == 0 {
		return mean, mean, stddev
	}
	mean = stat.Mean(kept, nil)
	stddev = stat.StdDev(kept, nil)
	sort.Float64s(kept)
	median = stat.Quantile(0.5, stat.Empirical, kept, nil)
	return mean, median, stddev
}

func NaNMax(vals []float64) float64 {
	max := math.Inf(-1)
	for _, v := range vals {
		if !math.IsNaN(v) && v > max {
			max = v
		}
	}
	return max
}

// An AsinhNorm maps values in [Low,High] to [0,1] on an asinh stretch,
// which keeps the faint background visible without saturating the core.
type AsinhNorm struct {
	Low, High float64
	A         float64 // softening; smaller stretches harder
}

func NewAsinhNorm(low, high float64) AsinhNorm {
	return AsinhNorm{Low: low, High: high, A: 1e-4}
}

func (n AsinhNorm)Apply(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	u := (v - n.Low) / (n.High - n.Low)
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return math.Asinh(u/n.A) / math.Asinh(1/n.A)
}

// A Colormap blends between anchor colors in Lab space.
type Colormap struct {
	anchors []colorful.Color
}

// Roughly the usual inferno ramp
func NewInfernoish() Colormap {
	return Colormap{anchors: []colorful.Color{
		{R: 0.00, G: 0.00, B: 0.02},
		{R: 0.34, G: 0.06, B: 0.43},
		{R: 0.74, G: 0.22, B: 0.33},
		{R: 0.98, G: 0.56, B: 0.04},
		{R: 0.99, G: 1.00, B: 0.64},
	}}
}

// At maps t in [0,1] to a color.
func (cm Colormap)At(t float64) color.Color {
	if t <= 0 {
		return cm.anchors[0]
	}
	if t >= 1 {
		return cm.anchors[len(cm.anchors)-1]
	}
	pos := t * float64(len(cm.anchors)-1)
	i := int(pos)
	return cm.anchors[i].BlendLab(cm.anchors[i+1], pos-float64(i)).Clamped()
}
