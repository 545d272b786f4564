// Package domain provides deterministic A/B experiment bucketing over a
// registry of experiment definitions.
package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Variant is one arm of an experiment a visitor can be assigned to.
type Variant struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`
}

// Experiment defines an experiment with weighted variants and a traffic
// allocation in (0,1]. Variant weights are expected to sum to 1.0; this is
// a documented contract of the registry file, not enforced at load time.
type Experiment struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Traffic  float64   `yaml:"traffic"`
	Variants []Variant `yaml:"variants"`
}

// Registry is the immutable set of experiment definitions, loaded once at
// startup and passed into the Bucketer at construction time.
type Registry struct {
	experiments map[string]Experiment
}

// NewRegistry builds a registry from explicit definitions.
func NewRegistry(defs []Experiment) *Registry {
	m := make(map[string]Experiment, len(defs))
	for _, def := range defs {
		m[def.ID] = def
	}
	return &Registry{experiments: m}
}

// LoadRegistry reads experiment definitions from a YAML file. An empty path
// returns the compiled-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(DefaultExperiments()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiments file: %w", err)
	}

	var file struct {
		Experiments []Experiment `yaml:"experiments"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse experiments file: %w", err)
	}

	return NewRegistry(file.Experiments), nil
}

// Get returns the experiment definition, if known.
func (r *Registry) Get(experimentID string) (Experiment, bool) {
	exp, ok := r.experiments[experimentID]
	return exp, ok
}

// DefaultExperiments returns the experiments shipped with the application.
func DefaultExperiments() []Experiment {
	return []Experiment{
		{
			ID:      "q-greeting",
			Name:    "Assistant greeting style",
			Traffic: 1.0,
			Variants: []Variant{
				{ID: "control", Weight: 0.33},
				{ID: "direct", Weight: 0.33},
				{ID: "playful", Weight: 0.34},
			},
		},
		{
			ID:      "pricing-anchor",
			Name:    "Price anchoring copy",
			Traffic: 0.5,
			Variants: []Variant{
				{ID: "control", Weight: 0.5},
				{ID: "value-first", Weight: 0.5},
			},
		},
	}
}
