package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunSettings is the yaml-side configuration of a headless run: which
// scenario to load and how long to step it. Scene content itself stays in
// JSON; this file only drives the harness.
type RunSettings struct {
	Scenario    string            `yaml:"scenario"`
	Duration    float64           `yaml:"duration"`
	Dt          float64           `yaml:"dt"`
	Seed        int64             `yaml:"seed"`
	Controllers map[string]string `yaml:"controllers"` // robot id -> registered controller
	Trace       bool              `yaml:"trace"`
	DataDir     string            `yaml:"data_dir"`
}

// DefaultRunSettings returns the baseline a settings file overrides.
func DefaultRunSettings() *RunSettings {
	return &RunSettings{
		Duration: 10.0,
		Trace:    true,
		DataDir:  ".botsim",
	}
}

// ApplyControllers rewrites per-robot controller references from the
// settings map, keyed by robot id. Robots without an entry keep the
// scenario's controller; keys that match no robot are ignored.
func (cfg *RunSettings) ApplyControllers(sc *Scenario) {
	if len(cfg.Controllers) == 0 {
		return
	}
	for i := range sc.Robots {
		id := sc.Robots[i].ID
		if id == "" {
			id = fmt.Sprintf("robot_%d", i+1)
		}
		if name, ok := cfg.Controllers[id]; ok {
			sc.Robots[i].Controller = name
		}
	}
}

// LoadRunSettings reads a yaml settings file over the defaults.
func LoadRunSettings(path string) (*RunSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultRunSettings()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveRunSettings writes settings as yaml.
func SaveRunSettings(path string, cfg *RunSettings) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
