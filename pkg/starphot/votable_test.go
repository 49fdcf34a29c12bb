package starphot

import(
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const vizierVOT = `<?xml version="1.0"?>
<VOTABLE version="1.3" xmlns="http://www.ivoa.net/xml/VOTable/v1.3">
 <RESOURCE>
  <TABLE>
   <FIELD name="sed_freq" unit="GHz" datatype="double"/>
   <FIELD name="sed_flux" unit="Jy" datatype="double"/>
   <FIELD name="sed_eflux" unit="Jy" datatype="double"/>
   <FIELD name="sed_filter" datatype="char" arraysize="*"/>
   <DATA><TABLEDATA>
    <TR><TD>136269.299</TD><TD>2.48</TD><TD>0.05</TD><TD>2MASS:Ks</TD></TR>
    <TR><TD>241690.0</TD><TD>3.10</TD><TD>0.08</TD><TD>2MASS:J</TD></TR>
    <TR><TD>0</TD><TD>9.99</TD><TD>0.01</TD><TD>bogus</TD></TR>
   </TABLEDATA></DATA>
  </TABLE>
 </RESOURCE>
</VOTABLE>`

func TestReadVOTable(t *testing.T) {
	path := writeFile(t, "star.vot", vizierVOT)

	pts, err := ReadVOTable(path)
	require.NoError(t, err)
	require.Len(t, pts, 2) // the zero-frequency row is dropped

	require.InDelta(t, 2.2001, pts[0].WaveMicron, 1e-3)
	require.Equal(t, 2.48, pts[0].FluxJy)
	require.Equal(t, 0.05, pts[0].EFluxJy)
	require.Equal(t, "2MASS:Ks", pts[0].Filter)
	require.InDelta(t, 1.2403, pts[1].WaveMicron, 1e-3)
}

func TestReadVOTableMissingColumns(t *testing.T) {
	body := `<?xml version="1.0"?>
<VOTABLE><RESOURCE><TABLE>
 <FIELD name="something_else"/>
 <DATA><TABLEDATA><TR><TD>1</TD></TR></TABLEDATA></DATA>
</TABLE></RESOURCE></VOTABLE>`
	path := writeFile(t, "bad.vot", body)
	_, err := ReadVOTable(path)
	require.Error(t, err)
}

const svoVOT = `<?xml version="1.0"?>
<VOTABLE version="1.1">
 <RESOURCE>
  <TABLE>
   <FIELD name="filterID" datatype="char" arraysize="*"/>
   <FIELD name="ZeroPoint" unit="Jy" datatype="double"/>
   <DATA><TABLEDATA>
    <TR><TD>JWST/NIRCam.F356W</TD><TD>235.4</TD></TR>
    <TR><TD>JWST/NIRCam.F444W</TD><TD>153.9</TD></TR>
   </TABLEDATA></DATA>
  </TABLE>
 </RESOURCE>
</VOTABLE>`

func TestSvoFpsFilterList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "JWST", r.URL.Query().Get("Facility"))
		require.Equal(t, "NIRCam", r.URL.Query().Get("Instrument"))
		w.Write([]byte(svoVOT))
	}))
	defer srv.Close()

	svc := &SvoFps{BaseURL: srv.URL, Client: srv.Client()}
	filters, err := svc.FilterList("JWST", "NIRCam")
	require.NoError(t, err)
	require.Len(t, filters, 2)
	require.Equal(t, "JWST/NIRCam.F356W", filters[0].ID)
	require.Equal(t, "F356W", filters[0].Name)
	require.Equal(t, 235.4, filters[0].ZeroPointJy)
}

func TestSvoFpsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := &SvoFps{BaseURL: srv.URL, Client: srv.Client()}
	_, err := svc.FilterList("JWST", "NIRCam")
	require.Error(t, err)
}
