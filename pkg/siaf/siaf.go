// Package siaf is a small static extract of the JWST Science Instrument
// Aperture File: just the coronagraphic apertures and their plate scales,
// enough to resolve an (instrument, detector) pair to arcsec/pixel.
package siaf

import(
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// An Aperture holds the plate scale of one science aperture. We ignore
// the slight departure from square pixels and carry only the X scale,
// and ignore the slight wavelength dependence.
type Aperture struct {
	Name      string
	Instrume  string
	XSciScale float64 // arcsec/pixel
}

var apertures = map[string]Aperture{
	"NRCA5_MASK430R": {"NRCA5_MASK430R", "NIRCAM", 0.062826},
	"NRCA2_MASK210R": {"NRCA2_MASK210R", "NIRCAM", 0.031048},
	"NRCA4_MASKSWB":  {"NRCA4_MASKSWB", "NIRCAM", 0.031048},
	"NIS_AMI1":       {"NIS_AMI1", "NIRISS", 0.065617},
	"MIRIM_MASK1065": {"MIRIM_MASK1065", "MIRI", 0.110530},
}

// LookupAperture resolves a detector name to its reference aperture.
// Unrecognized detectors fall through to the MIRI default; see the note
// on ScaleCache.Lookup.
func LookupAperture(detector string) Aperture {
	switch strings.ToUpper(detector) {
	case "NRCALONG":
		return apertures["NRCA5_MASK430R"]
	case "NRCA2":
		return apertures["NRCA2_MASK210R"]
	case "NRCA4":
		return apertures["NRCA4_MASKSWB"]
	case "NIRISS":
		return apertures["NIS_AMI1"]
	default:
		return apertures["MIRIM_MASK1065"]
	}
}

// Aperture returns the named aperture directly.
func ApertureByName(name string) (Aperture, error) {
	ap, ok := apertures[strings.ToUpper(name)]
	if !ok {
		return Aperture{}, errors.Errorf("siaf: no aperture %q", name)
	}
	return ap, nil
}

// A ScaleCache memoizes pixel-scale lookups for the life of the process.
// It never evicts; the key space is tiny.
type ScaleCache struct {
	mu sync.Mutex
	m  map[string]float64
}

func NewScaleCache() *ScaleCache {
	return &ScaleCache{m: map[string]float64{}}
}

// Lookup returns the plate scale in arcsec/pixel for an instrument and
// detector. The detector mapping falls back to the MIRI 1065 aperture
// when the detector is unrecognized, matching long-standing behavior;
// callers adding instruments should extend LookupAperture rather than
// rely on the fallback.
func (c *ScaleCache)Lookup(instrument, detector string) float64 {
	key := strings.ToUpper(instrument) + "/" + strings.ToUpper(detector)

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v
	}
	v := LookupAperture(detector).XSciScale
	c.m[key] = v
	return v
}

func (c *ScaleCache)Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

var defaultCache = NewScaleCache()

// LookupPixscale resolves through a process-wide cache.
func LookupPixscale(instrument, detector string) float64 {
	return defaultCache.Lookup(instrument, detector)
}
