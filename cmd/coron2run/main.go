package main

import(
	"flag"
	"log"
	"os"

	"github.com/abworrall/coronstack/pkg/coron2"
	"github.com/abworrall/coronstack/pkg/obsdb"
)

var(
	fConfigFilename string
	fOutputDir      string
	fSubdir         string
)

func init() {
	flag.StringVar(&fConfigFilename, "config", "", "YAML config with per-step parameter overrides")
	flag.StringVar(&fOutputDir, "out", "./reduced", "base output directory")
	flag.StringVar(&fSubdir, "subdir", "", "output subdirectory for stage 2 products (default stage2)")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime)
}

func main() {
	cfg := coron2.NewConfig()
	if fConfigFilename != "" {
		var err error
		if cfg, err = coron2.LoadConfig(fConfigFilename); err != nil {
			log.Fatal(err)
		}
		log.Printf("Loaded base configuration from %s", fConfigFilename)
	}

	// Command line args override the config file, if relevant
	if fOutputDir != "" {
		cfg.OutputDir = fOutputDir
	}
	if fSubdir != "" {
		cfg.Subdir = fSubdir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./reduced"
	}

	db := obsdb.New(cfg.OutputDir)
	if err := db.ReadFiles(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	log.Printf("Exposures loaded: %s", db)

	if err := coron2.RunObs(db, cfg.Steps, cfg.Subdir); err != nil {
		log.Fatalf("RunObs failed, err: %v", err)
	}

	log.Printf("Done: %s", db)
}
