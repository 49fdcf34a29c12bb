package starphot

import(
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeService struct {
	filters []Filter
}

func (s *fakeService)FilterList(facility, instrument string) ([]Filter, error) {
	return s.filters, nil
}

func setupResources(t *testing.T, instrume string, filters ...string) string {
	t.Helper()
	dir := t.TempDir()
	pceDir := filepath.Join(dir, "PCEs", instrume)
	require.NoError(t, os.MkdirAll(pceDir, 0755))

	curves := map[string]string{
		"F356W": "3.1 0.0\n3.3 0.4\n3.8 0.4\n4.0 0.0\n",
		"F444W": "4.0 0.0\n4.2 0.5\n4.6 0.5\n4.8 0.0\n",
		"F300X": "2.8 0.0\n2.9 0.3\n3.1 0.3\n3.2 0.0\n",
	}
	for _, f := range filters {
		require.NoError(t, os.WriteFile(filepath.Join(pceDir, f+".txt"), []byte(curves[f]), 0644))
	}
	return dir
}

func flatStarFile(t *testing.T) string {
	return writeFile(t, "star.txt", "0.5 1.0\n1.0 1.0\n2.0 1.0\n5.0 1.0\n10.0 1.0\n")
}

func TestGetStellarMagnitudes(t *testing.T) {
	resources := setupResources(t, "NIRCAM", "F356W", "F444W")
	svc := &fakeService{filters: []Filter{
		{ID: "JWST/NIRCam.F356W", Name: "F356W", ZeroPointJy: 235.4},
		{ID: "JWST/NIRCam.F444W", Name: "F444W", ZeroPointJy: 153.9},
		{ID: "JWST/NIRCam.F999X", Name: "F999X", ZeroPointJy: 1.0}, // no local passband
	}}

	mstar, fzero, fzeroSI, err := GetStellarMagnitudes(flatStarFile(t), "G2V", "NIRCAM", Options{
		ResourcesDir: resources,
		Service:      svc,
	})
	require.NoError(t, err)

	// Only filters with a local passband curve survive
	require.Len(t, mstar, 2)
	require.Contains(t, mstar, "F356W")
	require.Contains(t, mstar, "F444W")
	require.NotContains(t, mstar, "F999X")

	require.False(t, math.IsNaN(mstar["F356W"]))
	require.Equal(t, 235.4, fzero["F356W"])
	require.Nil(t, fzeroSI) // not requested

	// A flat-Fnu source is brighter than Vega at 4.4um than at 3.6um
	require.Greater(t, mstar["F356W"], 0.0)
	require.Greater(t, mstar["F356W"], mstar["F444W"])
}

func TestGetStellarMagnitudesReturnSI(t *testing.T) {
	resources := setupResources(t, "NIRCAM", "F356W", "F300X")
	svc := &fakeService{filters: []Filter{
		{ID: "JWST/NIRCam.F356W", Name: "F356W", ZeroPointJy: 235.4},
		{ID: "JWST/NIRCam.F300X", Name: "F300X", ZeroPointJy: 99.0},
	}}

	_, _, fzeroSI, err := GetStellarMagnitudes(flatStarFile(t), "G2V", "NIRCAM", Options{
		ResourcesDir: resources,
		Service:      svc,
		ReturnSI:     true,
	})
	require.NoError(t, err)
	require.InDelta(t, 6.38971e-12, fzeroSI["F356W"], 1e-17)
	require.True(t, math.IsNaN(fzeroSI["F300X"])) // no SI zero point on record
}

func TestGetStellarMagnitudesFromVOTable(t *testing.T) {
	resources := setupResources(t, "NIRCAM", "F356W")
	svc := &fakeService{filters: []Filter{
		{ID: "JWST/NIRCam.F356W", Name: "F356W", ZeroPointJy: 235.4},
	}}

	// Photometry at Ks and J, consistent with a 5th magnitude G star
	vot := writeFile(t, "star.vot", vizierVOT)
	outDir := t.TempDir()

	mstar, _, _, err := GetStellarMagnitudes(vot, "G2V", "NIRCAM", Options{
		ResourcesDir: resources,
		Service:      svc,
		OutputDir:    outDir,
	})
	require.NoError(t, err)
	require.Contains(t, mstar, "F356W")
	require.False(t, math.IsNaN(mstar["F356W"]))

	// The fit writes its diagnostic plot
	_, err = os.Stat(filepath.Join(outDir, "sed.pdf"))
	require.NoError(t, err)
}

func TestGetStellarMagnitudesBadStarfile(t *testing.T) {
	svc := &fakeService{}
	_, _, _, err := GetStellarMagnitudes("/no/such/star.txt", "G2V", "NIRCAM", Options{Service: svc})
	require.Error(t, err)
}
