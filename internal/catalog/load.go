package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog file. Sections left out of the file keep their
// built-in values.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var file Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	merged := Default()
	if len(file.Skills) > 0 {
		merged.Skills = file.Skills
	}
	if len(file.SkillRoles) > 0 {
		merged.SkillRoles = file.SkillRoles
	}
	if len(file.RoleFeedback) > 0 {
		merged.RoleFeedback = file.RoleFeedback
	}
	if file.DefaultFeedback != "" {
		merged.DefaultFeedback = file.DefaultFeedback
	}
	if len(file.EducationSkills) > 0 {
		merged.EducationSkills = file.EducationSkills
	}
	if file.DefaultRecommendation != "" {
		merged.DefaultRecommendation = file.DefaultRecommendation
	}

	if err := merged.compile(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return merged, nil
}

// Marshal renders c as YAML. Used by `catalog export`-style tooling and tests.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}
