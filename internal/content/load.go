package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultDocument []byte

// Project key errors.
var (
	ErrDuplicateKey = errors.New("duplicate project key")
	ErrEmptyKey     = errors.New("project title has no letters or digits")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	c, err := Parse(defaultDocument)
	if err != nil {
		return nil, fmt.Errorf("default content: %w", err)
	}
	return c, nil
}

// Load reads and validates the YAML document at path.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML content document. Unknown fields are
// rejected so typos in the authoring file surface at startup.
func Parse(data []byte) (*Content, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces the authoring rules: a named profile and a non-empty
// project list whose titles and action keys are unique.
func (c *Content) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate content: %w", err)
	}

	seen := make(map[string]string, len(c.Projects))
	for _, p := range c.Projects {
		key := p.Key()
		if key == "" {
			return fmt.Errorf("project %q: %w", p.Title, ErrEmptyKey)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("projects %q and %q: %w %q", other, p.Title, ErrDuplicateKey, key)
		}
		seen[key] = p.Title
	}
	return nil
}
