// Package coron2 is the stage 2 reduction driver for coronagraphic
// exposures: the standard image-level calibration steps plus outlier
// detection, run per association product, and a batch runner that sweeps
// a whole exposure database through it.
package coron2

import(
	"log"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/abworrall/coronstack/pkg/assoc"
	"github.com/abworrall/coronstack/pkg/jfits"
)

// A Coron2Pipeline calibrates the products of one association. It is the
// stock image-level step sequence with an outlier detection step wired
// in after it, enabled by default.
type Coron2Pipeline struct {
	OutputDir      string
	SaveResults    bool
	RunID          string // stamped into output primary headers when set

	// Mirrors how the underlying framework persists results after a run
	OutputUseModel bool
	Suffix         string

	steps   []Step
	outlier *OutlierDetectionStep
}

func NewCoron2Pipeline(outputDir string) *Coron2Pipeline {
	od := NewOutlierDetectionStep()
	od.Skip = false

	return &Coron2Pipeline{
		OutputDir: outputDir,
		Suffix:    "cal",
		steps: []Step{
			NewAssignWCSStep(),
			NewFlatFieldStep(),
			NewPhotomStep(),
			od,
		},
		outlier: od,
	}
}

// Step looks a step up by name, or nil.
func (p *Coron2Pipeline)Step(name string) Step {
	for _, s := range p.steps {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// SetParam routes one override through the step registry. Unknown step
// or parameter names are errors.
func (p *Coron2Pipeline)SetParam(step, param string, val interface{}) error {
	s := p.Step(step)
	if s == nil {
		return errors.Errorf("coron2: unknown step %q", step)
	}
	return s.SetParam(param, val)
}

// ApplyOverrides walks a StepConfig in sorted order, for stable logs.
func (p *Coron2Pipeline)ApplyOverrides(cfg StepConfig) error {
	stepNames := make([]string, 0, len(cfg))
	for name := range cfg {
		stepNames = append(stepNames, name)
	}
	sort.Strings(stepNames)

	for _, stepName := range stepNames {
		params := make([]string, 0, len(cfg[stepName]))
		for param := range cfg[stepName] {
			params = append(params, param)
		}
		sort.Strings(params)

		for _, param := range params {
			if err := p.SetParam(stepName, param, cfg[stepName][param]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run loads the input as an association (or singleton exposure) and
// calibrates every product, returning the in-memory results. When
// SaveResults is set, each product is also written under OutputDir with
// the suffix picked by its shape: calints for cubes, cal for single
// images.
func (p *Coron2Pipeline)Run(input string) ([]*jfits.Obs, error) {
	asn, err := assoc.Load(input)
	if err != nil {
		return nil, err
	}

	all := []*jfits.Obs{}
	for _, product := range asn.Products {
		obs, err := p.processExposureProduct(asn, product)
		if err != nil {
			return nil, errors.Wrapf(err, "product %s", product.Name)
		}

		// Explicit second outlier pass on the calibrated result
		if err := p.outlier.Run(obs); err != nil {
			return nil, errors.Wrapf(err, "product %s outlier rerun", product.Name)
		}

		suffix := "cal"
		if !obs.Is2D {
			suffix = "calints"
		}
		obs.Filename = product.Name + "_" + suffix + ".fits"
		if p.RunID != "" {
			obs.PriHeader.Set("RUNID", p.RunID, "reduction run identifier")
		}

		if p.SaveResults {
			out := filepath.Join(p.OutputDir, obs.Filename)
			if err := jfits.WriteObsAs(obs, out); err != nil {
				return nil, errors.Wrapf(err, "product %s", product.Name)
			}
			log.Printf("coron2: wrote %s", out)
		}
		all = append(all, obs)
	}

	p.OutputUseModel = true
	p.Suffix = ""

	return all, nil
}

func (p *Coron2Pipeline)processExposureProduct(asn *assoc.Association, product assoc.Product) (*jfits.Obs, error) {
	member, err := product.ScienceMember()
	if err != nil {
		return nil, err
	}

	obs, err := jfits.ReadObs(asn.Resolve(member))
	if err != nil {
		return nil, err
	}

	for _, s := range p.steps {
		if s.Skipped() {
			log.Printf("coron2: %s skipped", s.Name())
			continue
		}
		if err := s.Run(obs); err != nil {
			return nil, errors.Wrap(err, s.Name())
		}
	}
	return obs, nil
}
