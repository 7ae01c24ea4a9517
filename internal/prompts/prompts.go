// Package prompts holds the embedded prompt templates for each Gateway
// operation and the static product information served by /api/info.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// Prompt names
const (
	Analyze = "analyze"
	Answer  = "answer"
	Compare = "compare"
)

// Prompt is one operation's instructions. Prompt is a text/template rendered
// with the operation's input; System and Output are sent verbatim.
type Prompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Model       string `yaml:"model"`
	System      string `yaml:"system"`
	Prompt      string `yaml:"prompt"`
	Output      string `yaml:"output"`

	tmpl *template.Template
}

// AnalyzeInput fills the analyze prompt
type AnalyzeInput struct {
	DocumentText string
}

// AnswerInput fills the answer prompt. PriorSummary is optional.
type AnswerInput struct {
	DocumentText string
	Question     string
	PriorSummary string
}

// CompareInput fills the compare prompt
type CompareInput struct {
	DocumentAText string
	DocumentBText string
}

// Registry holds the parsed prompts
type Registry struct {
	prompts map[string]*Prompt
	mu      sync.RWMutex
}

// NewRegistry loads and parses every embedded prompt
func NewRegistry() (*Registry, error) {
	r := &Registry{prompts: make(map[string]*Prompt)}

	for _, name := range []string{Analyze, Answer, Compare} {
		if err := r.loadPromptFile(name); err != nil {
			return nil, fmt.Errorf("failed to load %s prompt: %w", name, err)
		}
	}
	return r, nil
}

func (r *Registry) loadPromptFile(name string) error {
	filename := fmt.Sprintf("templates/%s.yaml", name)
	data, err := templateFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	p.tmpl, err = template.New(name).Option("missingkey=error").Parse(p.Prompt)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", filename, err)
	}

	r.mu.Lock()
	r.prompts[name] = &p
	r.mu.Unlock()
	return nil
}

// Get returns the named prompt
func (r *Registry) Get(name string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
	return p, nil
}

// Render executes the prompt template with input
func (p *Prompt) Render(input any) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, input); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", p.Name, err)
	}
	return buf.String(), nil
}

// Instructions joins the system text with the output-format instructions
func (p *Prompt) Instructions() string {
	return p.System + "\n" + p.Output
}
