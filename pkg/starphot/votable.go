package starphot

import(
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The fragment of the VOTable schema we care about: FIELD declarations
// plus TABLEDATA rows, anywhere under the first RESOURCE/TABLE.

type voTable struct {
	XMLName   xml.Name     `xml:"VOTABLE"`
	Resources []voResource `xml:"RESOURCE"`
}

type voResource struct {
	Tables []voTableElem `xml:"TABLE"`
}

type voTableElem struct {
	Fields []voField `xml:"FIELD"`
	Rows   []voRow   `xml:"DATA>TABLEDATA>TR"`
}

type voField struct {
	Name string `xml:"name,attr"`
	Unit string `xml:"unit,attr"`
}

type voRow struct {
	Cells []string `xml:"TD"`
}

// parseVOTable returns column names and row cells from a VOTable stream.
func parseVOTable(r io.Reader) ([]string, [][]string, error) {
	vot := voTable{}
	if err := xml.NewDecoder(r).Decode(&vot); err != nil {
		return nil, nil, errors.Wrap(err, "votable parse")
	}
	for _, res := range vot.Resources {
		for _, tbl := range res.Tables {
			if len(tbl.Fields) == 0 {
				continue
			}
			names := make([]string, len(tbl.Fields))
			for i, f := range tbl.Fields {
				names[i] = f.Name
			}
			rows := make([][]string, len(tbl.Rows))
			for i, row := range tbl.Rows {
				rows[i] = row.Cells
			}
			return names, rows, nil
		}
	}
	return nil, nil, errors.New("votable: no table found")
}

// A PhotPoint is one catalog photometry measurement.
type PhotPoint struct {
	WaveMicron float64
	FluxJy     float64
	EFluxJy    float64
	Filter     string
}

const speedOfLightMicronGHz = 299792.458 // c, in micron * GHz

// ReadVOTable reads host-star photometry from a VizieR photometry
// VOTable (sed_freq in GHz, sed_flux/sed_eflux in Jy).
func ReadVOTable(path string) ([]PhotPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "votable open %s", path)
	}
	defer f.Close()

	names, rows, err := parseVOTable(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	col := map[string]int{}
	for i, n := range names {
		col[strings.ToLower(n)] = i
	}
	iFreq, okF := col["sed_freq"]
	iFlux, okX := col["sed_flux"]
	if !okF || !okX {
		return nil, errors.Errorf("votable %s: no sed_freq/sed_flux columns", path)
	}
	iEFlux, okE := col["sed_eflux"]
	iFilter, okN := col["sed_filter"]

	points := []PhotPoint{}
	for _, cells := range rows {
		if iFreq >= len(cells) || iFlux >= len(cells) {
			continue
		}
		freq, err1 := strconv.ParseFloat(strings.TrimSpace(cells[iFreq]), 64)
		flux, err2 := strconv.ParseFloat(strings.TrimSpace(cells[iFlux]), 64)
		if err1 != nil || err2 != nil || freq <= 0 {
			continue
		}
		pt := PhotPoint{
			WaveMicron: speedOfLightMicronGHz / freq,
			FluxJy:     flux,
		}
		if okE && iEFlux < len(cells) {
			pt.EFluxJy, _ = strconv.ParseFloat(strings.TrimSpace(cells[iEFlux]), 64)
		}
		if okN && iFilter < len(cells) {
			pt.Filter = strings.TrimSpace(cells[iFilter])
		}
		points = append(points, pt)
	}
	if len(points) == 0 {
		return nil, errors.Errorf("votable %s: no usable photometry", path)
	}
	return points, nil
}
