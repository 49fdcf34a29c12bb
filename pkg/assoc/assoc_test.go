package assoc

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductName(t *testing.T) {
	require.Equal(t, "jw01386001001_04101_00001_nrcalong",
		ProductName("/data/jw01386001001_04101_00001_nrcalong_rateints.fits"))
	require.Equal(t, "jw0001_cal", ProductName("jw0001_cal_cal.fits"))
	require.Equal(t, "oddball", ProductName("oddball.fits"))
}

func TestLoadSingleton(t *testing.T) {
	asn, err := Load("/data/stage1/jw0001_rateints.fits")
	require.NoError(t, err)
	require.Equal(t, "singleton", asn.Filename)
	require.Len(t, asn.Products, 1)

	p := asn.Products[0]
	require.Equal(t, "jw0001", p.Name)

	m, err := p.ScienceMember()
	require.NoError(t, err)
	require.Equal(t, "/data/stage1/jw0001_rateints.fits", asn.Resolve(m))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	body := `{
  "asn_pool": "jw01386_pool",
  "products": [
    {
      "name": "jw01386-o001_t001_nircam_f444w",
      "members": [
        {"expname": "jw0001_rateints.fits", "exptype": "science"},
        {"expname": "jw0002_rateints.fits", "exptype": "background"}
      ]
    }
  ]
}`
	path := filepath.Join(dir, "asn.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	asn, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "jw01386_pool", asn.AsnPool)
	require.Len(t, asn.Products, 1)

	m, err := asn.Products[0].ScienceMember()
	require.NoError(t, err)
	require.Equal(t, "jw0001_rateints.fits", m.Expname)
	require.Equal(t, filepath.Join(dir, "jw0001_rateints.fits"), asn.Resolve(m))
}

func TestLoadJSONErrors(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Load(path)
	require.Error(t, err)

	path = filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products": []}`), 0644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestScienceMemberMissing(t *testing.T) {
	p := Product{Name: "x", Members: []Member{{Expname: "a.fits", Exptype: "background"}}}
	_, err := p.ScienceMember()
	require.Error(t, err)
}
