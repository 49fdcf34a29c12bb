package starphot

import(
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var(
	ErrBadSpecFile = errors.New("unable to read provided starfile; ensure format is in two columns with wavelength (microns), flux (Jy)")
)

// ReadSpecFile reads a spectrum from a two-column text file: wavelength
// in micron, flux in Jy. Any malformed content yields ErrBadSpecFile.
func ReadSpecFile(starfile string) (SED, error) {
	f, err := os.Open(starfile)
	if err != nil {
		return SED{}, ErrBadSpecFile
	}
	defer f.Close()

	waveMicron := []float64{}
	fluxJy := []float64{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return SED{}, ErrBadSpecFile
		}
		w, err1 := strconv.ParseFloat(fields[0], 64)
		fl, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return SED{}, ErrBadSpecFile
		}
		waveMicron = append(waveMicron, w)
		fluxJy = append(fluxJy, fl)
	}
	if scanner.Err() != nil || len(waveMicron) == 0 {
		return SED{}, ErrBadSpecFile
	}

	return FromMicronJy(filepath.Base(starfile), waveMicron, fluxJy), nil
}

// ReadBandpassFile reads a passband curve: column 1 wavelength in
// micron (stored x1e4, i.e. Angstrom, once loaded), column 2 throughput.
func ReadBandpassFile(path string) (Bandpass, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bandpass{}, err
	}
	defer f.Close()

	bp := Bandpass{Name: strings.TrimSuffix(filepath.Base(path), ".txt")}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return Bandpass{}, errors.Errorf("bandpass %s: malformed line %q", path, line)
		}
		w, err1 := strconv.ParseFloat(fields[0], 64)
		t, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return Bandpass{}, errors.Errorf("bandpass %s: malformed line %q", path, line)
		}
		bp.WaveA = append(bp.WaveA, w*1e4)
		bp.Throughput = append(bp.Throughput, t)
	}
	if scanner.Err() != nil || len(bp.WaveA) == 0 {
		return Bandpass{}, errors.Errorf("bandpass %s: no data", path)
	}
	return bp, nil
}
