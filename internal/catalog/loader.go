package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the YAML structure of a catalog file. Every section is
// optional; files from a directory are merged.
type yamlCatalogFile struct {
	Foes      []string `yaml:"foes"`
	Allies    []string `yaml:"allies"`
	Fountains []string `yaml:"fountains"`
	Items     []string `yaml:"items"`
	Dialogs   []string `yaml:"dialogs"`
}

// LoadFromBytes parses a catalog snapshot from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the catalog schema.
// Postcondition: returns a Snapshot or a non-nil error.
func LoadFromBytes(data []byte) (Snapshot, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Snapshot{}, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return New(map[string][]string{
		KindFoe:      file.Foes,
		KindAlly:     file.Allies,
		KindFountain: file.Fountains,
		KindItem:     file.Items,
		KindDialog:   file.Dialogs,
	}), nil
}

// LoadFromFile reads and parses a single catalog YAML file.
func LoadFromFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	snap, err := LoadFromBytes(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return snap, nil
}

// LoadFromDir loads every .yaml/.yml file in dir and merges the results.
// Files are read in name order so merges are deterministic.
//
// Postcondition: returns the merged Snapshot or the first error encountered.
func LoadFromDir(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return Snapshot{}, fmt.Errorf("no catalog files found in %s", dir)
	}

	merged := Snapshot{ids: make(map[string]map[string]struct{})}
	for _, name := range names {
		snap, err := LoadFromFile(filepath.Join(dir, name))
		if err != nil {
			return Snapshot{}, err
		}
		for kind, set := range snap.ids {
			dst, ok := merged.ids[kind]
			if !ok {
				dst = make(map[string]struct{}, len(set))
				merged.ids[kind] = dst
			}
			for id := range set {
				dst[id] = struct{}{}
			}
		}
	}
	return merged, nil
}
