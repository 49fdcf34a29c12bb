// Package obsdb maintains the table of discovered exposures, grouped by
// concatenation (one group per instrument/detector/filter/mask combo).
// The reduction drivers read rows out of it and write updated paths back
// in as files move through the stages.
package obsdb

import(
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/coronstack/pkg/jfits"
	"github.com/abworrall/coronstack/pkg/siaf"
)

// An ObsRow is one exposure on disk plus the header metadata we key on.
type ObsRow struct {
	FitsFile string
	DataModl string  // processing stage label: STAGE0, STAGE1, STAGE2
	Type     string  // SCI or REF
	Instrume string
	Detector string
	Filter   string
	CoronMsk string
	PixScale float64 // arcsec/pixel
	NInts    int
}

type Database struct {
	OutputDir string
	Keys      []string             // concatenation keys, in discovery order
	Obs       map[string][]ObsRow

	scales *siaf.ScaleCache
}

func New(outputDir string) *Database {
	return &Database{
		OutputDir: outputDir,
		Obs:       map[string][]ObsRow{},
		scales:    siaf.NewScaleCache(),
	}
}

// ReadFiles walks files and directories, adding every FITS file found.
func (db *Database)ReadFiles(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := db.ReadFiles(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default: // is a file, load it
			if strings.ToLower(filepath.Ext(arg)) != ".fits" {
				continue
			}
			if err := db.addFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

func (db *Database)addFile(fitsfile string) error {
	pri, _, naxes, err := jfits.ReadHeaders(fitsfile)
	if err != nil {
		return err
	}

	row := ObsRow{
		FitsFile: fitsfile,
		DataModl: stageLabel(fitsfile),
		Type:     "SCI",
		Instrume: strings.ToUpper(pri.Str("INSTRUME")),
		Detector: strings.ToUpper(pri.Str("DETECTOR")),
		Filter:   strings.ToUpper(pri.Str("FILTER")),
		CoronMsk: strings.ToUpper(pri.Str("CORONMSK")),
		NInts:    1,
	}
	if pri.Bool("IS_PSF") {
		row.Type = "REF"
	}
	if len(naxes) == 3 {
		row.NInts = naxes[2]
	}
	row.PixScale = db.scales.Lookup(row.Instrume, row.Detector)

	key := concatKey(row)
	if _, ok := db.Obs[key]; !ok {
		db.Keys = append(db.Keys, key)
	}
	db.Obs[key] = append(db.Obs[key], row)
	return nil
}

// UpdateObs rewrites one row's file path and stage label in place.
func (db *Database)UpdateObs(key string, j int, fitsfile, datamodl string) error {
	rows, ok := db.Obs[key]
	if !ok {
		return fmt.Errorf("obsdb: no concatenation %s", key)
	}
	if j < 0 || j >= len(rows) {
		return fmt.Errorf("obsdb: %s has no row %d", key, j)
	}
	rows[j].FitsFile = fitsfile
	if datamodl != "" {
		rows[j].DataModl = datamodl
	}
	return nil
}

func (db *Database)String() string {
	str := "Database[\n"
	for _, key := range db.Keys {
		str += fmt.Sprintf("  %s\n", key)
		for _, row := range db.Obs[key] {
			str += fmt.Sprintf("    %-6s %-6s nints=%-3d %s\n",
				row.DataModl, row.Type, row.NInts, filepath.Base(row.FitsFile))
		}
	}
	str += "]\n"
	return str
}

// stageLabel infers the processing stage from the filename suffix
// convention.
func stageLabel(fitsfile string) string {
	name := strings.TrimSuffix(filepath.Base(fitsfile), ".fits")
	switch {
	case strings.HasSuffix(name, "_uncal"):
		return "STAGE0"
	case strings.HasSuffix(name, "_rate"), strings.HasSuffix(name, "_rateints"):
		return "STAGE1"
	case strings.HasSuffix(name, "_cal"), strings.HasSuffix(name, "_calints"):
		return "STAGE2"
	}
	return "STAGE1"
}

func concatKey(row ObsRow) string {
	parts := []string{"JWST", row.Instrume, row.Detector, row.Filter}
	if row.CoronMsk != "" {
		parts = append(parts, row.CoronMsk)
	}
	return strings.Join(parts, "_")
}
