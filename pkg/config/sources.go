package config

import (
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/perspectives/pkg/domain"
)

// sourcesFile is the layout of the sources file, {sources: {category: [source, ...]}}.
// JSON is a subset of YAML, so both formats decode with the same parser.
type sourcesFile struct {
	Sources map[string][]domain.Source `yaml:"sources"`
}

// LoadSources reads feed sources grouped by category. Unknown categories are skipped with a warning.
func LoadSources(path string) (map[domain.Category][]domain.Source, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from config
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	res := make(map[domain.Category][]domain.Source, len(sf.Sources))
	for name, sources := range sf.Sources {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			lgr.Printf("[WARN] unknown category %q in %s, skipped", name, path)
			continue
		}
		for i, src := range sources {
			if err := validateSource(src); err != nil {
				return nil, fmt.Errorf("source %d in %s: %w", i, cat, err)
			}
		}
		res[cat] = append(res[cat], sources...)
	}
	return res, nil
}

func validateSource(src domain.Source) error {
	if src.Name == "" {
		return fmt.Errorf("name is required")
	}
	if src.RSS == "" {
		return fmt.Errorf("rss is required for %s", src.Name)
	}
	if src.Credibility < 0 || src.Credibility > 1 {
		return fmt.Errorf("credibility of %s must be between 0 and 1, got %v", src.Name, src.Credibility)
	}
	return nil
}
