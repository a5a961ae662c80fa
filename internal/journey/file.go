package journey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk journey document: the journey itself plus optional
// per-mode profile overrides.
type File struct {
	Journey  Journey          `yaml:"journey"`
	Profiles map[Mode]Profile `yaml:"profiles,omitempty"`
}

// ReadFile loads a journey document from a YAML file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse journey file %s: %w", path, err)
	}
	return &f, nil
}

// WriteFile writes a journey document to a YAML file.
func WriteFile(f *File, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
