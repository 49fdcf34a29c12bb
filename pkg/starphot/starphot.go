package starphot

import(
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Zero points in SI-ish units (erg/cm^2/s/A) for the filters we have
// them for; everything else reports NaN.
var zeroPointsSI = map[string]float64{
	"F182M": 7.44007e-11,
	"F210M": 4.69758e-11,
	"F250M": 2.41440e-11,
	"F300M": 1.24029e-11,
	"F335M": 7.92772e-12,
	"F356W": 6.38971e-12,
	"F444W": 2.84527e-12,
}

type Options struct {
	ReturnSI     bool
	OutputDir    string        // when set, the SED diagnostic plot lands here
	ResourcesDir string        // passband root; default "resources"
	Service      FilterService // default: live SVO query
}

// GetStellarMagnitudes computes the source brightness (vegamag) and the
// zero-point flux (Jy) in each filter of the given JWST instrument.
//
// starfile is either a two-column text spectrum (micron, Jy) or a
// VizieR photometry VOTable (.vot); in the latter case a model SED for
// spectralType is fit to the photometry first. Filters the service
// reports but for which no local passband file exists are skipped.
func GetStellarMagnitudes(starfile, spectralType, instrume string, opt Options) (mstar, fzero, fzeroSI map[string]float64, err error) {
	var sed SED

	if strings.HasSuffix(strings.ToLower(starfile), ".vot") {
		phot, err := ReadVOTable(starfile)
		if err != nil {
			return nil, nil, nil, err
		}

		model, err := ModelSED(spectralType, 5.0)
		if err != nil {
			return nil, nil, nil, err
		}

		// NIR and MIR exposures fit over disjoint windows
		wlimLo, wlimHi := 1.0, 5.0
		if strings.EqualFold(instrume, "MIRI") {
			wlimLo, wlimHi = 5.0, 30.0
		}

		fitted, scale, err := FitSEDScale(model, phot, wlimLo, wlimHi)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("starphot: fit %s SED to %d points, scale %.4g", spectralType, len(phot), scale)

		if opt.OutputDir != "" {
			if err := PlotSED(fitted, phot, filepath.Join(opt.OutputDir, "sed.pdf")); err != nil {
				return nil, nil, nil, err
			}
		}
		sed = fitted
	} else {
		sed, err = ReadSpecFile(starfile)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	svc := opt.Service
	if svc == nil {
		svc = NewSvoFps()
	}
	filters, err := svc.FilterList("JWST", instrume)
	if err != nil {
		return nil, nil, nil, err
	}

	resources := opt.ResourcesDir
	if resources == "" {
		resources = "resources"
	}
	vega := VegaSpectrum()

	mstar = map[string]float64{}  // vegamag
	fzero = map[string]float64{}  // Jy
	fzeroSI = map[string]float64{} // erg/cm^2/s/A

	for _, filt := range filters {
		path := filepath.Join(resources, "PCEs", strings.ToUpper(instrume), filt.Name+".txt")
		if _, err := os.Stat(path); err != nil {
			continue // no local passband curve for this filter
		}
		bp, err := ReadBandpassFile(path)
		if err != nil {
			continue
		}

		key := strings.ToUpper(filt.Name)
		mstar[key] = VegaMag(sed, bp, vega)
		fzero[key] = filt.ZeroPointJy
		if si, ok := zeroPointsSI[key]; ok {
			fzeroSI[key] = si
		} else {
			fzeroSI[key] = math.NaN()
		}
	}

	if !opt.ReturnSI {
		return mstar, fzero, nil, nil
	}
	return mstar, fzero, fzeroSI, nil
}
