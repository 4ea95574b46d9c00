// Package careers holds the career profiles, the skill synonym table and the
// predefined study subjects.
package careers

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/cris/internal/skills"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrUnknownCareer = errors.New("unknown career")

var validate = validator.New()

// Profile is a target career and its ordered skill weights.
type Profile struct {
	Name   string
	Skills skills.Weights
}

// Catalog is an immutable set of career profiles sharing one synonym table.
type Catalog struct {
	profiles []Profile
	index    map[string]int
	synonyms skills.SynonymTable
	subjects []string
	matcher  *skills.Matcher
}

type skillEntry struct {
	Name   string `mapstructure:"name" validate:"required"`
	Weight int    `mapstructure:"weight" validate:"min=1,max=3"`
}

type careerEntry struct {
	Name   string       `mapstructure:"name" validate:"required"`
	Skills []skillEntry `mapstructure:"skills" validate:"dive"`
}

type synonymEntry struct {
	Skill    string   `mapstructure:"skill" validate:"required"`
	Variants []string `mapstructure:"variants" validate:"required,min=1"`
}

type catalogFile struct {
	Careers  []careerEntry  `mapstructure:"careers" validate:"required,min=1,dive"`
	Synonyms []synonymEntry `mapstructure:"synonyms" validate:"dive"`
	Subjects []string       `mapstructure:"subjects" validate:"dive,required"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}

	return catalog, nil
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading careers file %q: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("careers file %q: %w", path, err)
	}

	return catalog, nil
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return Decode(raw)
}

// Decode builds a catalog from already parsed data, such as a YAML document
// or a viper sub-tree. Unknown keys are rejected.
func Decode(raw any) (*Catalog, error) {
	var file catalogFile

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	return build(file)
}

func build(file catalogFile) (*Catalog, error) {
	c := &Catalog{
		profiles: make([]Profile, 0, len(file.Careers)),
		index:    make(map[string]int, len(file.Careers)),
		synonyms: make(skills.SynonymTable, len(file.Synonyms)),
	}

	for _, career := range file.Careers {
		name := strings.TrimSpace(career.Name)
		if _, ok := c.index[name]; ok {
			return nil, fmt.Errorf("career %q is declared twice", name)
		}

		profile := Profile{Name: name, Skills: make(skills.Weights, 0, len(career.Skills))}
		seen := make(map[string]struct{}, len(career.Skills))
		for _, s := range career.Skills {
			if _, ok := seen[s.Name]; ok {
				return nil, fmt.Errorf("career %q: skill %q is declared twice", name, s.Name)
			}
			seen[s.Name] = struct{}{}
			profile.Skills = append(profile.Skills, skills.Weight{Skill: s.Name, Weight: s.Weight})
		}

		c.index[name] = len(c.profiles)
		c.profiles = append(c.profiles, profile)
	}

	for _, syn := range file.Synonyms {
		if _, ok := c.synonyms[syn.Skill]; ok {
			return nil, fmt.Errorf("synonyms for skill %q are declared twice", syn.Skill)
		}

		variants := make([]string, 0, len(syn.Variants))
		for _, v := range syn.Variants {
			// An empty variant would be a substring of every text.
			normalized := skills.Normalize(v)
			if normalized == "" {
				return nil, fmt.Errorf("synonyms for skill %q contain an empty variant", syn.Skill)
			}
			variants = append(variants, normalized)
		}
		c.synonyms[syn.Skill] = variants
	}

	for _, subject := range file.Subjects {
		c.subjects = append(c.subjects, strings.TrimSpace(subject))
	}

	c.matcher = skills.NewMatcher(c.synonyms)

	return c, nil
}

// Names returns career names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		names = append(names, p.Name)
	}
	return names
}

// DefaultCareer returns the first declared career.
func (c *Catalog) DefaultCareer() string {
	return c.profiles[0].Name
}

// Profile returns the named profile.
func (c *Catalog) Profile(name string) (Profile, error) {
	idx, ok := c.index[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCareer, name, strings.Join(c.Names(), ", "))
	}
	return c.profiles[idx], nil
}

func (c *Catalog) Synonyms() skills.SynonymTable { return c.synonyms }

func (c *Catalog) Subjects() []string { return c.subjects }

func (c *Catalog) Matcher() *skills.Matcher { return c.matcher }
