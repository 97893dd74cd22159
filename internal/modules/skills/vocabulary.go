package skills

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the fixed list of generic competency terms matched against
// posting titles, in addition to each record's explicit skill labels.
type Vocabulary struct {
	Terms []string `yaml:"terms"`
}

// DefaultVocabulary returns the compiled-in competency terms. A deployment
// can override these with a YAML file via LoadVocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{Terms: []string{
		"project management",
		"programme management",
		"data analysis",
		"monitoring and evaluation",
		"gis",
		"procurement",
		"logistics",
		"supply chain",
		"budget",
		"finance",
		"human resources",
		"communication",
		"advocacy",
		"partnership",
		"policy",
		"research",
		"coordination",
		"capacity building",
		"emergency response",
		"protection",
		"nutrition",
		"public health",
		"epidemiology",
		"education",
		"gender",
		"climate change",
		"water and sanitation",
		"information management",
		"reporting",
		"resource mobilization",
	}}
}

// LoadVocabulary reads a vocabulary YAML file. An empty path yields the
// compiled-in defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	if len(v.Terms) == 0 {
		return DefaultVocabulary(), nil
	}
	for i := range v.Terms {
		v.Terms[i] = strings.ToLower(strings.TrimSpace(v.Terms[i]))
	}
	return v, nil
}
