package coron2

import(
	"log"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/coronstack/pkg/jfits"
	"github.com/abworrall/coronstack/pkg/siaf"
)

// A Step is one stage of per-exposure calibration. Parameters are set
// through SetParam, which each step implements with an explicit switch
// over the names it recognizes; unknown names are an error rather than
// silently becoming new attributes.
type Step interface {
	Name() string
	Skipped() bool
	SetParam(param string, val interface{}) error
	Run(obs *jfits.Obs) error
}

type stepBase struct {
	StepName string
	Skip     bool
}

func (s *stepBase)Name() string  { return s.StepName }
func (s *stepBase)Skipped() bool { return s.Skip }

// setBaseParam handles the params every step shares. Returns false when
// the param wasn't one of those.
func (s *stepBase)setBaseParam(param string, val interface{}) (bool, error) {
	if param != "skip" {
		return false, nil
	}
	b, err := asBool(val)
	if err != nil {
		return true, errors.Wrapf(err, "step %s param skip", s.StepName)
	}
	s.Skip = b
	return true, nil
}

func unknownParam(step, param string) error {
	return errors.Errorf("step %s: unknown parameter %q", step, param)
}

// AssignWCSStep stamps a linear WCS into the SCI header from the SIAF
// plate scale and the pointing keywords, when the exposure doesn't carry
// one already.
type AssignWCSStep struct {
	stepBase
}

func NewAssignWCSStep() *AssignWCSStep {
	return &AssignWCSStep{stepBase{StepName: "assign_wcs"}}
}

func (s *AssignWCSStep)SetParam(param string, val interface{}) error {
	if ok, err := s.setBaseParam(param, val); ok {
		return err
	}
	return unknownParam(s.StepName, param)
}

func (s *AssignWCSStep)Run(obs *jfits.Obs) error {
	if _, ok := obs.SciHeader.Float("CD1_1"); !ok {
		scale := siaf.LookupPixscale(obs.PriHeader.Str("INSTRUME"), obs.PriHeader.Str("DETECTOR"))
		deg := scale / 3600.0

		ra, _ := obs.PriHeader.Float("TARG_RA")
		dec, _ := obs.PriHeader.Float("TARG_DEC")

		obs.SciHeader.Set("CRPIX1", float64(obs.Data.NX)/2+0.5, "axis 1 reference pixel")
		obs.SciHeader.Set("CRPIX2", float64(obs.Data.NY)/2+0.5, "axis 2 reference pixel")
		obs.SciHeader.Set("CRVAL1", ra, "[deg] RA at reference pixel")
		obs.SciHeader.Set("CRVAL2", dec, "[deg] Dec at reference pixel")
		obs.SciHeader.Set("CD1_1", -deg, "[deg/px] WCS matrix element")
		obs.SciHeader.Set("CD1_2", 0.0, "[deg/px] WCS matrix element")
		obs.SciHeader.Set("CD2_1", 0.0, "[deg/px] WCS matrix element")
		obs.SciHeader.Set("CD2_2", deg, "[deg/px] WCS matrix element")
	}
	obs.PriHeader.Set("S_WCS", "COMPLETE", "assign_wcs status")
	return nil
}

// FlatFieldStep divides by a flat-field reference when one is supplied
// via the override_flat parameter; with no flat it only records status.
type FlatFieldStep struct {
	stepBase
	OverrideFlat string
}

func NewFlatFieldStep() *FlatFieldStep {
	return &FlatFieldStep{stepBase: stepBase{StepName: "flat_field"}}
}

func (s *FlatFieldStep)SetParam(param string, val interface{}) error {
	if ok, err := s.setBaseParam(param, val); ok {
		return err
	}
	switch param {
	case "override_flat":
		str, err := asString(val)
		if err != nil {
			return errors.Wrapf(err, "step %s param override_flat", s.StepName)
		}
		s.OverrideFlat = str
		return nil
	}
	return unknownParam(s.StepName, param)
}

func (s *FlatFieldStep)Run(obs *jfits.Obs) error {
	if s.OverrideFlat != "" {
		flat, err := jfits.ReadRed(s.OverrideFlat)
		if err != nil {
			return errors.Wrap(err, "flat_field")
		}
		if flat.Data.NY != obs.Data.NY || flat.Data.NX != obs.Data.NX {
			return errors.Errorf("flat_field: flat is %s, data is %s", flat.Data.String(), obs.Data.String())
		}
		fl := flat.Data.Plane(0)
		for i := 0; i < obs.Data.NInts; i++ {
			dpl, epl := obs.Data.Plane(i), obs.Erro.Plane(i)
			for j := range dpl {
				if fl[j] != 0 {
					dpl[j] /= fl[j]
					epl[j] /= fl[j]
				} else {
					dpl[j] = float32(math.NaN())
					obs.Pxdq.Vals[i*obs.Pxdq.NPix()+j] |= jfits.DQDoNotUse
				}
			}
		}
	}
	obs.PriHeader.Set("S_FLAT", "COMPLETE", "flat_field status")
	return nil
}

// PhotomStep applies the photometric conversion factor, leaving the data
// in MJy/sr.
type PhotomStep struct {
	stepBase
	PhotMjsr float64
}

func NewPhotomStep() *PhotomStep {
	return &PhotomStep{stepBase: stepBase{StepName: "photom"}, PhotMjsr: 1.0}
}

func (s *PhotomStep)SetParam(param string, val interface{}) error {
	if ok, err := s.setBaseParam(param, val); ok {
		return err
	}
	switch param {
	case "photmjsr":
		f, err := asFloat(val)
		if err != nil {
			return errors.Wrapf(err, "step %s param photmjsr", s.StepName)
		}
		s.PhotMjsr = f
		return nil
	}
	return unknownParam(s.StepName, param)
}

func (s *PhotomStep)Run(obs *jfits.Obs) error {
	f := float32(s.PhotMjsr)
	for j := range obs.Data.Vals {
		obs.Data.Vals[j] *= f
		obs.Erro.Vals[j] *= f
	}
	obs.SciHeader.Set("BUNIT", "MJy/sr", "physical units of the array values")
	obs.SciHeader.Set("PHOTMJSR", s.PhotMjsr, "flux density conversion, MJy/sr per DN/s")
	obs.PriHeader.Set("S_PHOTOM", "COMPLETE", "photom status")
	return nil
}

// OutlierDetectionStep sigma-clips each pixel across the integration
// axis: samples further than NSigma from the per-pixel median get the
// outlier and do-not-use DQ bits and are replaced by the median. Single
// images pass through untouched.
type OutlierDetectionStep struct {
	stepBase
	NSigma float64
}

func NewOutlierDetectionStep() *OutlierDetectionStep {
	return &OutlierDetectionStep{stepBase: stepBase{StepName: "outlier_detection"}, NSigma: 5.0}
}

func (s *OutlierDetectionStep)SetParam(param string, val interface{}) error {
	if ok, err := s.setBaseParam(param, val); ok {
		return err
	}
	switch param {
	case "nsigma":
		f, err := asFloat(val)
		if err != nil {
			return errors.Wrapf(err, "step %s param nsigma", s.StepName)
		}
		if f <= 0 {
			return errors.Errorf("step %s: nsigma must be > 0", s.StepName)
		}
		s.NSigma = f
		return nil
	}
	return unknownParam(s.StepName, param)
}

func (s *OutlierDetectionStep)Run(obs *jfits.Obs) error {
	if obs.Data.NInts < 2 {
		return nil
	}

	npix := obs.Data.NPix()
	samples := make([]float64, 0, obs.Data.NInts)
	flagged := 0

	for j := 0; j < npix; j++ {
		samples = samples[:0]
		for i := 0; i < obs.Data.NInts; i++ {
			v := float64(obs.Data.Vals[i*npix+j])
			if !math.IsNaN(v) {
				samples = append(samples, v)
			}
		}
		if len(samples) < 2 {
			continue
		}

		sort.Float64s(samples)
		med := stat.Quantile(0.5, stat.Empirical, samples, nil)
		sigma := stat.StdDev(samples, nil)
		if sigma == 0 {
			continue
		}

		for i := 0; i < obs.Data.NInts; i++ {
			v := float64(obs.Data.Vals[i*npix+j])
			if math.IsNaN(v) || math.Abs(v-med) > s.NSigma*sigma {
				obs.Data.Vals[i*npix+j] = float32(med)
				obs.Pxdq.Vals[i*npix+j] |= jfits.DQDoNotUse | jfits.DQOutlier
				flagged++
			}
		}
	}

	if flagged > 0 {
		log.Printf("outlier_detection: flagged %d samples (nsigma=%.1f)", flagged, s.NSigma)
	}
	obs.PriHeader.Set("S_OUTLIR", "COMPLETE", "outlier_detection status")
	return nil
}

func asBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	}
	return false, errors.Errorf("want bool, got %T", v)
}

func asFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	}
	return 0, errors.Errorf("want number, got %T", v)
}

func asString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	}
	return "", errors.Errorf("want string, got %T", v)
}
