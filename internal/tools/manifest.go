package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest declares an upstream tool in a YAML or JSON file.
type Manifest struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Version      string   `yaml:"version"`
	InputSchema  string   `yaml:"inputSchema"`
	OutputSchema string   `yaml:"outputSchema"`
	API          string   `yaml:"api"`
	Endpoint     string   `yaml:"endpoint"`
	Fields       []string `yaml:"fields"`
}

var manifestExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// ParseManifest decodes a manifest. JSON documents are valid YAML.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// Module turns the manifest into a loadable module.
func (m Manifest) Module(scorer Scorer) Module {
	return UpstreamTool(UpstreamSpec{
		Name:         m.Name,
		Description:  m.Description,
		Version:      m.Version,
		InputSchema:  m.InputSchema,
		OutputSchema: m.OutputSchema,
		API:          m.API,
		Endpoint:     m.Endpoint,
		Fields:       m.Fields,
	}, scorer)
}

// ScanDir returns one candidate per manifest file in dir, in file name order.
// Files with other extensions are ignored.
func ScanDir(dir string, scorer Scorer) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read tools directory: %w", err)
	}

	var out []Candidate
	for _, e := range entries {
		if e.IsDir() || !manifestExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		out = append(out, Candidate{
			Ref: path,
			Load: func() (Module, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return Module{}, err
				}
				m, err := ParseManifest(data)
				if err != nil {
					return Module{}, err
				}
				return m.Module(scorer), nil
			},
		})
	}
	return out, nil
}
