package starphot

import(
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Physical constants, SI
const(
	hPlanck    = 6.62607015e-34
	kBoltzmann = 1.380649e-23
	cLight     = 2.99792458e8
)

// Main-sequence effective temperatures, coarse but plenty for a
// continuum shape that then gets scaled onto the photometry.
var teffBySpType = map[string]float64{
	"O5": 42000, "B0": 30000, "B5": 15200,
	"A0": 9700, "A5": 8080,
	"F0": 7200, "F5": 6510,
	"G0": 5930, "G2": 5770, "G5": 5660,
	"K0": 5280, "K5": 4440,
	"M0": 3850, "M5": 3060,
}

// TeffForSpectralType maps a type like "G2V" or "K5" to a temperature,
// ignoring the luminosity class.
func TeffForSpectralType(sptype string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(sptype))
	if len(s) < 2 {
		return 0, errors.Errorf("starphot: bad spectral type %q", sptype)
	}
	if t, ok := teffBySpType[s[:2]]; ok {
		return t, nil
	}
	// Unlisted subclass: interpolate between the class anchors we have
	class := s[:1]
	sub := float64(s[1] - '0')
	if sub < 0 || sub > 9 {
		return 0, errors.Errorf("starphot: bad spectral type %q", sptype)
	}
	t0, ok0 := teffBySpType[class+"0"]
	t5, ok5 := teffBySpType[class+"5"]
	if !ok0 || !ok5 {
		return 0, errors.Errorf("starphot: unknown spectral class %q", sptype)
	}
	return t0 + (t5-t0)*sub/5, nil
}

// blackbodyFnu is the Planck function in frequency units, arbitrary
// normalization, at wavelength waveA Angstrom.
func blackbodyFnu(teff, waveA float64) float64 {
	lam := waveA * 1e-10
	nu := cLight / lam
	x := hPlanck * nu / (kBoltzmann * teff)
	if x > 700 {
		return 0
	}
	return nu * nu * nu / (math.Exp(x) - 1)
}

// The 2MASS Ks zero point, Jy, and a tophat stand-in for its bandpass.
const ksZeroPointJy = 666.8

func ksBandpass() Bandpass {
	wave := []float64{}
	thru := []float64{}
	for w := 1.95e4; w <= 2.35e4; w += 0.01e4 {
		wave = append(wave, w)
		t := 1.0
		if w < 1.99e4 || w > 2.31e4 {
			t = 0.0
		}
		thru = append(thru, t)
	}
	return Bandpass{Name: "Ks", WaveA: wave, Throughput: thru}
}

// ModelSED builds a blackbody continuum for the spectral type,
// normalized to the given Vega magnitude in the Ks reference band. This
// is the starting spectrum that FitSEDScale then pins to the catalog
// photometry.
func ModelSED(sptype string, ksMag float64) (SED, error) {
	teff, err := TeffForSpectralType(sptype)
	if err != nil {
		return SED{}, err
	}

	// Log-spaced grid, 0.3 to 35 micron
	n := 600
	waveA := make([]float64, n)
	flux := make([]float64, n)
	lo, hi := math.Log(0.3e4), math.Log(35e4)
	for i := 0; i < n; i++ {
		waveA[i] = math.Exp(lo + (hi-lo)*float64(i)/float64(n-1))
		flux[i] = blackbodyFnu(teff, waveA[i])
	}
	sed := SED{Name: sptype + " model", WaveA: waveA, FluxJy: flux}

	// Pin the Ks-band mean flux density to the requested magnitude
	want := ksZeroPointJy * math.Pow(10, -ksMag/2.5)
	have := meanFnu(sed, ksBandpass())
	if have <= 0 || math.IsNaN(have) {
		return SED{}, errors.Errorf("starphot: degenerate model for %q", sptype)
	}
	return sed.Scaled(want / have), nil
}
