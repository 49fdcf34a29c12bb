package main

import(
	"flag"
	"log"
	"os"

	"github.com/abworrall/coronstack/pkg/cplot"
	"github.com/abworrall/coronstack/pkg/obsdb"
)

var(
	fOutputDir  string
	fRestrictTo string
	fPDF        string
	fNoZoom     bool
)

func init() {
	flag.StringVar(&fOutputDir, "out", "./reduced", "base output directory")
	flag.StringVar(&fRestrictTo, "restrict", "", "only show concatenations whose key contains this string")
	flag.StringVar(&fPDF, "pdf", "", "write all pages into this multi-page PDF instead of per-file PNGs")
	flag.BoolVar(&fNoZoom, "nozoom", false, "omit the center zoom inset")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime)
}

func main() {
	db := obsdb.New(fOutputDir)
	if err := db.ReadFiles(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	log.Printf("Exposures loaded: %s", db)

	opts := cplot.Options{NoZoomInset: fNoZoom}
	if err := cplot.DisplayCoronDataset(db, fRestrictTo, fPDF, opts); err != nil {
		log.Fatalf("display failed, err: %v", err)
	}
}
