package starphot

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitSEDScaleRecoversScale(t *testing.T) {
	model, err := ModelSED("G2V", 5.0)
	require.NoError(t, err)

	// Photometry drawn from the model itself, 3x brighter
	phot := []PhotPoint{}
	for _, wMicron := range []float64{1.25, 1.65, 2.2, 3.5, 4.5} {
		phot = append(phot, PhotPoint{
			WaveMicron: wMicron,
			FluxJy:     3.0 * model.FluxAt(wMicron*1e4),
		})
	}

	fitted, scale, err := FitSEDScale(model, phot, 1.0, 5.0)
	require.NoError(t, err)
	require.InDelta(t, 3.0, scale, 0.03)
	require.InDelta(t, 3.0*model.FluxAt(2.2e4), fitted.FluxAt(2.2e4), 3e-2*model.FluxAt(2.2e4))
}

func TestFitSEDScaleWindow(t *testing.T) {
	model, err := ModelSED("G2V", 5.0)
	require.NoError(t, err)

	// A wild point outside the window must not influence the fit
	phot := []PhotPoint{
		{WaveMicron: 2.2, FluxJy: 2.0 * model.FluxAt(2.2e4)},
		{WaveMicron: 12.0, FluxJy: 500 * model.FluxAt(12e4)},
	}
	_, scale, err := FitSEDScale(model, phot, 1.0, 5.0)
	require.NoError(t, err)
	require.InDelta(t, 2.0, scale, 0.02)

	// No points in the window at all is an error
	_, _, err = FitSEDScale(model, phot[:1], 5.0, 30.0)
	require.Error(t, err)
}

func TestPlotSED(t *testing.T) {
	model, err := ModelSED("K5", 6.0)
	require.NoError(t, err)
	phot := []PhotPoint{{WaveMicron: 2.2, FluxJy: model.FluxAt(2.2e4)}}

	out := filepath.Join(t.TempDir(), "sed.pdf")
	require.NoError(t, PlotSED(model, phot, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
