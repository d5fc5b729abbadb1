package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a component catalog from a YAML file, so the engine can
// explain a bill other than the built-in HR1 package. The loaded catalog
// passes the same validation as the built-in one.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read catalog %s", path)
	}

	// The YAML has a top-level "catalog" key.
	var wrapper struct {
		Catalog struct {
			Reform     string      `yaml:"reform"`
			Components []Component `yaml:"components"`
		} `yaml:"catalog"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "model: parse catalog")
	}

	cat, err := NewCatalog(wrapper.Catalog.Reform, wrapper.Catalog.Components)
	if err != nil {
		return nil, eris.Wrapf(err, "model: catalog %s", path)
	}
	return cat, nil
}
