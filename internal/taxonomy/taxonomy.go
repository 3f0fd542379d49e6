// Package taxonomy holds the classification vocabulary offered to human
// classifiers. A Taxonomy is built once at startup and never mutated, so it
// can be shared freely between handlers and batch jobs.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Class struct {
	Name       string   `yaml:"name" json:"name"`
	Subclasses []string `yaml:"subclasses" json:"subclasses"`
}

type document struct {
	Classifications []Class `yaml:"classifications"`
}

type Taxonomy struct {
	classes    []Class
	byName     map[string]int
	bySubclass map[string]string
}

// Default returns the taxonomy shipped with the binary.
func Default() *Taxonomy {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}

// Load reads a taxonomy file. An empty path yields Default().
func Load(path string) (*Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(doc.Classifications) == 0 {
		return nil, errors.New("taxonomy has no classifications")
	}
	t := &Taxonomy{
		classes:    make([]Class, 0, len(doc.Classifications)),
		byName:     make(map[string]int, len(doc.Classifications)),
		bySubclass: map[string]string{},
	}
	for _, c := range doc.Classifications {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.New("taxonomy entry without name")
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("duplicate classification %q", name)
		}
		subs := make([]string, 0, len(c.Subclasses))
		for _, s := range c.Subclasses {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			subs = append(subs, s)
			if _, seen := t.bySubclass[s]; !seen {
				t.bySubclass[s] = name
			}
		}
		t.byName[name] = len(t.classes)
		t.classes = append(t.classes, Class{Name: name, Subclasses: subs})
	}
	return t, nil
}

func (t *Taxonomy) MainClasses() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, c.Name)
	}
	return out
}

// Subclasses returns the subclasses of a main classification. Unknown names
// yield an empty, non-nil slice.
func (t *Taxonomy) Subclasses(main string) []string {
	if t == nil {
		return []string{}
	}
	idx, ok := t.byName[strings.TrimSpace(main)]
	if !ok {
		return []string{}
	}
	subs := t.classes[idx].Subclasses
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

func (t *Taxonomy) HasClass(main string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byName[strings.TrimSpace(main)]
	return ok
}

// Resolve finds the main classification a subclass belongs to.
func (t *Taxonomy) Resolve(subclass string) (string, bool) {
	if t == nil {
		return "", false
	}
	main, ok := t.bySubclass[strings.TrimSpace(subclass)]
	return main, ok
}
