package prompts

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Feature is one product highlight
type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// FAQItem is one question and its markdown answer
type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Info is the static product information page
type Info struct {
	Features []Feature `yaml:"features" json:"features"`
	FAQ      []FAQItem `yaml:"faq" json:"faq"`
}

// LoadInfo parses the embedded feature list and FAQ
func LoadInfo() (*Info, error) {
	data, err := templateFiles.ReadFile("templates/faq.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read faq: %w", err)
	}

	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal faq: %w", err)
	}
	return &info, nil
}
