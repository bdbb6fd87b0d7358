package rubric

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	generateTemperature = 0.1
	generateMaxTokens   = 800
)

// Generator is the reasoning-service call used when no cached rubric exists.
type Generator interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Provider resolves rubrics per role: in-memory cache, then the YAML file
// cache under dir, then generation. Generated rubrics are cached
// indefinitely.
type Provider struct {
	dir string
	gen Generator
	log *logrus.Entry

	mu    sync.Mutex
	cache map[string]*Rubric
}

func NewProvider(dir string, gen Generator, log *logrus.Logger) *Provider {
	return &Provider{
		dir:   dir,
		gen:   gen,
		log:   log.WithField("component", "rubric"),
		cache: map[string]*Rubric{},
	}
}

func (p *Provider) ForRole(ctx context.Context, role string) (*Rubric, error) {
	slug := Slug(role)
	if slug == "" {
		slug = "teacher"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.cache[slug]; ok {
		return r, nil
	}
	if r, err := p.load(slug); err == nil {
		p.cache[slug] = r
		return r, nil
	}

	p.log.WithField("role", role).Info("no cached rubric, generating")
	raw, err := p.gen.Complete(ctx, generatePrompt(role), generateTemperature, generateMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("rubric generation: %w", err)
	}
	var r Rubric
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("rubric generation returned invalid JSON: %w", err)
	}
	if len(r.Dimensions) == 0 {
		return nil, fmt.Errorf("rubric generation returned no dimensions")
	}
	if err := p.save(slug, &r); err != nil {
		p.log.WithError(err).Warn("could not persist generated rubric")
	}
	p.cache[slug] = &r
	return &r, nil
}

func (p *Provider) load(slug string) (*Rubric, error) {
	b, err := os.ReadFile(p.path(slug))
	if err != nil {
		return nil, err
	}
	var r Rubric
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("rubric %s: %w", slug, err)
	}
	return &r, nil
}

func (p *Provider) save(slug string, r *Rubric) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	tmp := p.path(slug) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path(slug))
}

func (p *Provider) path(slug string) string {
	return filepath.Join(p.dir, slug+".yaml")
}

func generatePrompt(role string) string {
	return fmt.Sprintf(`Generate a detailed teacher-evaluation rubric for the role: %q.
Output ONLY valid JSON. No text outside JSON.

The JSON must follow this exact structure:

{
  "dimensions": [
    {
      "name": "Concept Clarity",
      "weight": 0.25,
      "description": "How clearly the teacher explains concepts.",
      "examplesOfGood": "Uses simple definitions; explains with examples.",
      "examplesOfBad": "Confusing explanations; jumps between ideas."
    }
  ]
}

Produce 4 to 6 dimensions covering concept clarity, delivery and
communication, content structure, student engagement and accuracy.
Weights must sum to 1.0.`, role)
}
