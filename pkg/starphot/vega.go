package starphot

import(
	"math"
)

// Vega reference spectrum: a 9602K blackbody pinned to the standard
// monochromatic flux at 5556A. Crude in the thermal infrared, but the
// magnitude zero point only ever sees it through broad bandpass ratios.
const(
	vegaTeff        = 9602.0
	vegaRefWaveA    = 5556.0
	vegaRefFluxJy   = 3540.0
)

var vegaSED SED

func init() {
	n := 800
	waveA := make([]float64, n)
	flux := make([]float64, n)
	lo, hi := math.Log(0.1e4), math.Log(40e4)
	for i := 0; i < n; i++ {
		waveA[i] = math.Exp(lo + (hi-lo)*float64(i)/float64(n-1))
		flux[i] = blackbodyFnu(vegaTeff, waveA[i])
	}
	sed := SED{Name: "Vega", WaveA: waveA, FluxJy: flux}
	vegaSED = sed.Scaled(vegaRefFluxJy / sed.FluxAt(vegaRefWaveA))
}

// VegaSpectrum returns the reference spectrum used as the vegamag zero
// point.
func VegaSpectrum() SED {
	return vegaSED
}
