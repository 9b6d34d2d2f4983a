package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"versequest/internal/memorize"
)

// tierFile is the on-disk shape of a tier table:
//
//	tiers:
//	  - name: Saul
//	    min: 1
//	    max: 5
//	    next: Nicodemus
//	  - name: Paul
//	    min: 6
//	    max: -1
type tierFile struct {
	Tiers memorize.TierTable `yaml:"tiers"`
}

// LoadTiers returns the tier table named by path, or the default table when
// path is empty. The table is validated before it is returned.
func LoadTiers(path string) (memorize.TierTable, error) {
	if path == "" {
		return memorize.DefaultTiers(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier file %s: %w", path, err)
	}

	return ParseTiers(content)
}

// ParseTiers decodes and validates a YAML tier table.
func ParseTiers(content []byte) (memorize.TierTable, error) {
	var file tierFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tier file: %w", err)
	}

	if err := file.Tiers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tier table: %w", err)
	}

	return file.Tiers, nil
}
