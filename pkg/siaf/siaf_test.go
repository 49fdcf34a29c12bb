package siaf

import(
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupAperture(t *testing.T) {
	ap := LookupAperture("NRCALONG")
	require.Equal(t, "NRCA5_MASK430R", ap.Name)
	require.InDelta(t, 0.062826, ap.XSciScale, 1e-9)

	ap = LookupAperture("nrca2")
	require.Equal(t, "NRCA2_MASK210R", ap.Name)

	// Unknown detectors land on the MIRI aperture
	ap = LookupAperture("UVIS")
	require.Equal(t, "MIRIM_MASK1065", ap.Name)
}

func TestApertureByName(t *testing.T) {
	ap, err := ApertureByName("NIS_AMI1")
	require.NoError(t, err)
	require.Equal(t, "NIRISS", ap.Instrume)

	_, err = ApertureByName("NRCB1_FULL")
	require.Error(t, err)
}

func TestScaleCacheMemoizes(t *testing.T) {
	c := NewScaleCache()

	s1 := c.Lookup("NIRCam", "NRCALONG")
	s2 := c.Lookup("NIRCam", "NRCALONG")
	require.Equal(t, s1, s2)
	require.Equal(t, 1, c.Len())

	c.Lookup("NIRISS", "NIRISS")
	require.Equal(t, 2, c.Len())
}

func TestLookupPixscale(t *testing.T) {
	require.InDelta(t, 0.062826, LookupPixscale("NIRCam", "NRCALONG"), 1e-9)
	require.InDelta(t, 0.065617, LookupPixscale("NIRISS", "NIRISS"), 1e-9)
	require.InDelta(t, 0.110530, LookupPixscale("MIRI", "MIRIMAGE"), 1e-9)
}
