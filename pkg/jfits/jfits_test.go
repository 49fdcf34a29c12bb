package jfits

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func makeObs(nints, ny, nx int, is2d bool) *Obs {
	obs := &Obs{
		Data: NewCube(nints, ny, nx),
		Erro: NewCube(nints, ny, nx),
		Pxdq: NewDQCube(nints, ny, nx),
		Is2D: is2d,
	}
	for i := range obs.Data.Vals {
		obs.Data.Vals[i] = float32(i)
		obs.Erro.Vals[i] = 0.1
	}
	obs.PriHeader.Set("INSTRUME", "NIRCAM", "instrument")
	obs.PriHeader.Set("DETECTOR", "NRCALONG", "detector")
	obs.SciHeader.Set("BUNIT", "DN/s", "units")
	return obs
}

func TestReadObs2DNormalization(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jw001_rate.fits")
	require.NoError(t, WriteObsAs(makeObs(1, 4, 5, true), path))

	obs, err := ReadObs(path)
	require.NoError(t, err)
	require.True(t, obs.Is2D)
	require.Equal(t, 1, obs.Data.NInts)
	require.Equal(t, 4, obs.Data.NY)
	require.Equal(t, 5, obs.Data.NX)
	require.Equal(t, 1, obs.Pxdq.NInts)
	require.Equal(t, "NIRCAM", obs.PriHeader.Str("INSTRUME"))
}

func TestReadObs3DPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jw001_rateints.fits")
	src := makeObs(3, 4, 5, false)
	src.Data.Set(2, 1, 3, 42.5)
	require.NoError(t, WriteObsAs(src, path))

	obs, err := ReadObs(path)
	require.NoError(t, err)
	require.False(t, obs.Is2D)
	require.Equal(t, 3, obs.Data.NInts)
	require.Equal(t, float32(42.5), obs.Data.At(2, 1, 3))
}

func TestWriteObsRoundTrip2D(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in_rate.fits")
	require.NoError(t, WriteObsAs(makeObs(1, 3, 3, true), src))

	obs, err := ReadObs(src)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	out, err := WriteObs(obs, src, outDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "in_rate.fits"), out)

	// The written file must be 2D again
	r, err := os.Open(out)
	require.NoError(t, err)
	defer r.Close()
	f, err := fitsio.Open(r)
	require.NoError(t, err)
	defer f.Close()
	for _, hdu := range f.HDUs() {
		if hdu.Name() == "SCI" {
			require.Len(t, hdu.Header().Axes(), 2)
			return
		}
	}
	t.Fatalf("no SCI extension in %s", out)
}

func writeRankedFile(t *testing.T, path string, dims []int) {
	t.Helper()
	w, err := os.Create(path)
	require.NoError(t, err)
	defer w.Close()
	f, err := fitsio.Create(w)
	require.NoError(t, err)
	defer f.Close()

	pri := fitsio.NewImage(8, []int{})
	defer pri.Close()
	require.NoError(t, f.Write(pri))

	n := 1
	for _, d := range dims {
		n *= d
	}
	for _, name := range []string{"SCI", "ERR"} {
		img := fitsio.NewImage(-32, dims)
		require.NoError(t, img.Header().Append(fitsio.Card{Name: "EXTNAME", Value: name}))
		vals := make([]float32, n)
		require.NoError(t, img.Write(&vals))
		require.NoError(t, f.Write(img))
		img.Close()
	}
	img := fitsio.NewImage(32, dims)
	require.NoError(t, img.Header().Append(fitsio.Card{Name: "EXTNAME", Value: "DQ"}))
	vals := make([]int32, n)
	require.NoError(t, img.Write(&vals))
	require.NoError(t, f.Write(img))
	img.Close()
}

func TestReadObsRejectsBadRank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.fits")
	writeRankedFile(t, path, []int{7})

	_, err := ReadObs(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotCube), "want ErrNotCube, got %v", err)
}

func TestReadRed(t *testing.T) {
	dir := t.TempDir()

	// Data in an extension
	path := filepath.Join(dir, "red_calints.fits")
	require.NoError(t, WriteObsAs(makeObs(2, 3, 3, false), path))
	red, err := ReadRed(path)
	require.NoError(t, err)
	require.False(t, red.Is2D)
	require.Equal(t, 2, red.Data.NInts)
	require.Equal(t, "DN/s", red.SciHeader.Str("BUNIT"))

	// Bad rank propagates the same error
	bad := filepath.Join(dir, "bad.fits")
	writeRankedFile(t, bad, []int{3})
	_, err = ReadRed(bad)
	require.True(t, errors.Is(err, ErrNotCube), "want ErrNotCube, got %v", err)
}

func TestReadRedNoData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.fits")

	w, err := os.Create(path)
	require.NoError(t, err)
	f, err := fitsio.Create(w)
	require.NoError(t, err)
	pri := fitsio.NewImage(8, []int{})
	require.NoError(t, f.Write(pri))
	pri.Close()
	f.Close()
	w.Close()

	_, err = ReadRed(path)
	require.True(t, errors.Is(err, ErrNoData), "want ErrNoData, got %v", err)
}

func TestCubeMeanImage(t *testing.T) {
	c := NewCube(2, 1, 2)
	c.Set(0, 0, 0, 1)
	c.Set(1, 0, 0, 3)
	c.Set(0, 0, 1, 5)
	c.Set(1, 0, 1, 5)
	m := c.MeanImage()
	require.Equal(t, []float64{2, 5}, m)
}

func TestHeaderSetOverwrites(t *testing.T) {
	h := Header{}
	h.Set("FILTER", "F356W", "")
	h.Set("FILTER", "F444W", "")
	require.Equal(t, "F444W", h.Str("FILTER"))
	require.Len(t, h, 1)

	h.Set("NINTS", 9, "")
	n, ok := h.Int("NINTS")
	require.True(t, ok)
	require.Equal(t, 9, n)
}
