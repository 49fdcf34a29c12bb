// Package starphot turns a stellar spectrum into per-filter brightness
// for use as a flux calibrator: Vega magnitudes and zero-point fluxes in
// every filter of the instrument in use, via synthetic photometry of the
// SED through locally stored passband curves.
package starphot

import(
	"math"

	"gonum.org/v1/gonum/integrate"
)

// An SED is a spectral energy distribution: flux density vs wavelength.
// Wavelengths are Angstrom, fluxes Jy, both ascending in wavelength.
type SED struct {
	Name   string
	WaveA  []float64
	FluxJy []float64
}

// FromMicronJy builds an SED from micron/Jy columns.
func FromMicronJy(name string, waveMicron, fluxJy []float64) SED {
	waveA := make([]float64, len(waveMicron))
	for i, w := range waveMicron {
		waveA[i] = w * 1e4
	}
	return SED{Name: name, WaveA: waveA, FluxJy: append([]float64(nil), fluxJy...)}
}

// FluxAt linearly interpolates the flux at a wavelength, returning the
// end values outside the tabulated range.
func (s SED)FluxAt(waveA float64) float64 {
	n := len(s.WaveA)
	if n == 0 {
		return 0
	}
	if waveA <= s.WaveA[0] {
		return s.FluxJy[0]
	}
	if waveA >= s.WaveA[n-1] {
		return s.FluxJy[n-1]
	}
	// binary search for the bracketing interval
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.WaveA[mid] <= waveA {
			lo = mid
		} else {
			hi = mid
		}
	}
	f := (waveA - s.WaveA[lo]) / (s.WaveA[hi] - s.WaveA[lo])
	return s.FluxJy[lo]*(1-f) + s.FluxJy[hi]*f
}

// Scaled returns a copy with every flux multiplied by k.
func (s SED)Scaled(k float64) SED {
	out := SED{Name: s.Name, WaveA: s.WaveA, FluxJy: make([]float64, len(s.FluxJy))}
	for i, f := range s.FluxJy {
		out.FluxJy[i] = f * k
	}
	return out
}

// A Bandpass is a filter throughput curve on its own wavelength grid
// (Angstrom).
type Bandpass struct {
	Name       string
	WaveA      []float64
	Throughput []float64
}

// synFlux is the photon-weighted mean flux density of the SED through
// the bandpass. The absolute normalization is arbitrary but consistent,
// which is all a magnitude ratio needs.
func synFlux(sed SED, bp Bandpass) float64 {
	n := len(bp.WaveA)
	num := make([]float64, n)
	den := make([]float64, n)
	for i, w := range bp.WaveA {
		// Fnu/lambda^2 ~ Flambda; extra lambda weights photons, not energy
		flam := sed.FluxAt(w) / (w * w)
		num[i] = flam * bp.Throughput[i] * w
		den[i] = bp.Throughput[i] * w
	}
	d := integrate.Trapezoidal(bp.WaveA, den)
	if d == 0 {
		return math.NaN()
	}
	return integrate.Trapezoidal(bp.WaveA, num) / d
}

// meanFnu is the bandpass-averaged flux density in Jy, used when a
// physical normalization is needed rather than a magnitude ratio.
func meanFnu(sed SED, bp Bandpass) float64 {
	n := len(bp.WaveA)
	num := make([]float64, n)
	for i, w := range bp.WaveA {
		num[i] = sed.FluxAt(w) * bp.Throughput[i]
	}
	d := integrate.Trapezoidal(bp.WaveA, bp.Throughput)
	if d == 0 {
		return math.NaN()
	}
	return integrate.Trapezoidal(bp.WaveA, num) / d
}

// VegaMag is the magnitude of the SED through the bandpass, with Vega
// as the zero point.
func VegaMag(sed SED, bp Bandpass, vega SED) float64 {
	fs := synFlux(sed, bp)
	fv := synFlux(vega, bp)
	if fs <= 0 || fv <= 0 || math.IsNaN(fs) || math.IsNaN(fv) {
		return math.NaN()
	}
	return -2.5 * math.Log10(fs/fv)
}
