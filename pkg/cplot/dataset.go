package cplot

import(
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/abworrall/coronstack/pkg/obsdb"
)

// DisplayCoronDataset renders every SCI and REF exposure in the
// database, concatenation by concatenation. With saveFilename set the
// pages go into one multi-page PDF; otherwise each exposure gets a PNG
// next to its FITS file. restrictTo, when non-empty, keeps only the
// concatenations whose key contains it (most simply, a filter name).
func DisplayCoronDataset(db *obsdb.Database, restrictTo, saveFilename string, opts Options) error {
	figs := []*Figure{}

	for _, key := range db.Keys {
		if restrictTo != "" && !strings.Contains(key, restrictTo) {
			continue
		}
		for _, typestr := range []string{"SCI", "REF"} {
			for _, row := range db.Obs[key] {
				if row.Type != typestr {
					continue
				}
				fig, err := RenderCoronImage(row.FitsFile, opts)
				if err != nil {
					return errors.Wrapf(err, "display %s", filepath.Base(row.FitsFile))
				}

				if saveFilename == "" {
					out := strings.TrimSuffix(row.FitsFile, ".fits") + ".png"
					if err := fig.Plot.Save(8*vg.Inch, 4.5*vg.Inch, out); err != nil {
						return errors.Wrapf(err, "save %s", out)
					}
					log.Printf("cplot: wrote %s", out)
					continue
				}
				figs = append(figs, fig)
			}
		}
	}

	if saveFilename == "" || len(figs) == 0 {
		return nil
	}

	c := vgpdf.New(8*vg.Inch, 4.5*vg.Inch)
	for i, fig := range figs {
		if i > 0 {
			c.NextPage()
		}
		fig.Plot.Draw(draw.New(c))
	}

	f, err := os.Create(saveFilename)
	if err != nil {
		return errors.Wrapf(err, "create %s", saveFilename)
	}
	defer f.Close()
	if _, err := c.WriteTo(f); err != nil {
		return errors.Wrapf(err, "write %s", saveFilename)
	}
	log.Printf("cplot: wrote %d pages to %s", len(figs), saveFilename)
	return nil
}
