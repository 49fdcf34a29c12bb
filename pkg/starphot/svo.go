package starphot

import(
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// A Filter is one entry from the filter profile service: the qualified
// ID (e.g. "JWST/NIRCam.F356W"), the bare name, and the Vega zero point.
type Filter struct {
	ID          string
	Name        string
	ZeroPointJy float64
}

// A FilterService lists the filters a facility offers for an
// instrument. The live implementation queries the SVO Filter Profile
// Service; tests substitute their own.
type FilterService interface {
	FilterList(facility, instrument string) ([]Filter, error)
}

// SvoFps queries the SVO Filter Profile Service,
// http://svo2.cab.inta-csic.es/theory/fps/
type SvoFps struct {
	BaseURL string
	Client  *http.Client
}

func NewSvoFps() *SvoFps {
	return &SvoFps{
		BaseURL: "http://svo2.cab.inta-csic.es/theory/fps/fps.php",
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *SvoFps)FilterList(facility, instrument string) ([]Filter, error) {
	q := url.Values{}
	q.Set("Facility", facility)
	q.Set("Instrument", instrument)

	resp, err := s.Client.Get(s.BaseURL + "?" + q.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "svo query")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("svo query: %s", resp.Status)
	}

	names, rows, err := parseVOTable(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "svo response")
	}

	col := map[string]int{}
	for i, n := range names {
		col[strings.ToLower(n)] = i
	}
	iID, okID := col["filterid"]
	iZP, okZP := col["zeropoint"]
	if !okID {
		return nil, errors.New("svo response: no filterID column")
	}

	filters := []Filter{}
	for _, cells := range rows {
		if iID >= len(cells) {
			continue
		}
		id := strings.TrimSpace(cells[iID])
		if id == "" {
			continue
		}
		f := Filter{ID: id, Name: filterName(id)}
		if okZP && iZP < len(cells) {
			f.ZeroPointJy, _ = strconv.ParseFloat(strings.TrimSpace(cells[iZP]), 64)
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("svo: no filters for %s/%s", facility, instrument)
	}
	return filters, nil
}

// filterName strips the facility/instrument qualifier.
func filterName(filterID string) string {
	parts := strings.Split(filterID, ".")
	return parts[len(parts)-1]
}
