package coron2

import(
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

/* Example config file ...

outputdir: ./reduced
subdir: stage2
steps:
  outlier_detection:
    nsigma: 4.5
  photom:
    photmjsr: 0.85
  flat_field:
    skip: true
*/

// A StepConfig is a two-level map of per-step parameter overrides, in
// the same shape the JWST pipeline uses. It is applied through the step
// registry, which rejects unknown step or parameter names. Callers pass
// a fresh value per run; nothing here is shared or mutated.
type StepConfig map[string]map[string]interface{}

type Config struct {
	OutputDir string     `yaml:"outputdir"`
	Subdir    string     `yaml:"subdir"`
	Steps     StepConfig `yaml:"steps"`
}

func NewConfig() Config {
	return Config{
		Subdir: "stage2",
		Steps:  StepConfig{},
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents, err := os.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	if c.Subdir == "" {
		c.Subdir = "stage2"
	}
	return c, nil
}
