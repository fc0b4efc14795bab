package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadScenario reads and validates a scenario document.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SaveScenario writes a scenario document with stable formatting, creating
// parent directories as needed.
func SaveScenario(path string, sc *Scenario) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks structural constraints that would otherwise only fail
// deep inside the simulator load.
func (sc *Scenario) Validate() error {
	if sc.World.Timestep <= 0 {
		return fmt.Errorf("scenario %q: timestep must be positive, got %g", sc.Name, sc.World.Timestep)
	}
	for _, obj := range sc.World.Terrain {
		if err := obj.Body.validate(); err != nil {
			return fmt.Errorf("terrain %q: %w", obj.Name, err)
		}
	}
	seen := map[string]bool{}
	for i, robot := range sc.Robots {
		id := robot.ID
		if id == "" {
			id = fmt.Sprintf("robot_%d", i+1)
		}
		if seen[id] {
			return fmt.Errorf("scenario %q: duplicate robot id %q", sc.Name, id)
		}
		seen[id] = true
		if err := robot.Config.validate(); err != nil {
			return fmt.Errorf("robot %q: %w", id, err)
		}
	}
	return nil
}

func (c BodyConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("body has no name")
	}
	if len(c.Points) < 3 {
		return fmt.Errorf("body %q: polygon needs at least 3 points, got %d", c.Name, len(c.Points))
	}
	return nil
}

func (c RobotConfig) validate() error {
	names := map[string]bool{}
	for _, b := range c.Bodies {
		if err := b.validate(); err != nil {
			return err
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate body name %q", b.Name)
		}
		names[b.Name] = true
	}
	for _, j := range c.Joints {
		if !names[j.Parent] || !names[j.Child] {
			return fmt.Errorf("joint %q references unknown body", j.Name)
		}
	}
	return nil
}
