package coron2

import(
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/abworrall/coronstack/pkg/obsdb"
)

// RunObs sweeps every stage 1 exposure in the database through the
// stage 2 pipeline, writing outputs under <db.OutputDir>/<subdir> and
// updating the database rows in place. Files are processed strictly in
// table order, one at a time; the first failure aborts the rest of the
// batch. Re-running after a crash is safe, since already-processed rows
// no longer carry the STAGE1 label.
func RunObs(db *obsdb.Database, steps StepConfig, subdir string) error {
	outputDir := filepath.Join(db.OutputDir, subdir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrapf(err, "mkdir %s", outputDir)
	}

	runID := uuid.New().String()
	log.Printf("coron2: run %s, output dir %s", runID, outputDir)

	// Per-file wall time, milliseconds
	hist := hdrhistogram.New(1, int64(time.Hour/time.Millisecond), 3)
	nDone := 0

	for _, key := range db.Keys {
		log.Printf("--> Concatenation %s", key)

		for j := range db.Obs[key] {
			row := db.Obs[key][j]
			tail := filepath.Base(row.FitsFile)

			// Skip non-stage 1 files
			if row.DataModl != "STAGE1" {
				log.Printf("  --> Coron2Pipeline: skipping non-stage 1 file %s", tail)
				continue
			}
			log.Printf("  --> Coron2Pipeline: processing %s", tail)

			pipeline := NewCoron2Pipeline(outputDir)
			pipeline.SaveResults = true
			pipeline.RunID = runID
			if err := pipeline.ApplyOverrides(steps); err != nil {
				return err
			}

			fitspath, err := filepath.Abs(row.FitsFile)
			if err != nil {
				return errors.Wrapf(err, "abs %s", row.FitsFile)
			}

			t0 := time.Now()
			all, err := pipeline.Run(fitspath)
			if err != nil {
				return errors.Wrapf(err, "coron2 %s", tail)
			}
			hist.RecordValue(int64(time.Since(t0) / time.Millisecond))
			nDone++

			res := all[0]
			fitsfile := filepath.Join(outputDir, res.Filename)

			// The driver reports the cal name even when a cube was
			// produced by the framework; point at the calints sibling
			// when it exists on disk.
			if strings.HasSuffix(fitsfile, "cal.fits") {
				ints := strings.TrimSuffix(fitsfile, "cal.fits") + "calints.fits"
				if _, err := os.Stat(ints); err == nil {
					fitsfile = ints
				}
			}

			if err := db.UpdateObs(key, j, fitsfile, "STAGE2"); err != nil {
				return err
			}
		}
	}

	if nDone > 0 {
		log.Printf("coron2: run %s processed %d files, wall time p50=%dms p99=%dms",
			runID, nDone, hist.ValueAtQuantile(50), hist.ValueAtQuantile(99))
	}
	return nil
}
