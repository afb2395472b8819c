// Package profile holds the content shown once the site has booted.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

// Skill categories, in display order.
const (
	CategoryProgramming = "Programming"
	CategoryTools       = "Engineering Tools"
	CategoryElectronics = "PCB Design & Electronics"
)

var categories = []string{CategoryProgramming, CategoryTools, CategoryElectronics}

type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
}

type Experience struct {
	Title    string   `yaml:"title" json:"title"`
	Company  string   `yaml:"company" json:"company"`
	Location string   `yaml:"location" json:"location"`
	Period   string   `yaml:"period" json:"period"`
	Bullets  []string `yaml:"bullets" json:"bullets"`
	Tools    []string `yaml:"tools" json:"tools"`
}

type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Period      string   `yaml:"period" json:"period"`
	Overview    string   `yaml:"overview" json:"overview"`
	Bullets     []string `yaml:"bullets" json:"bullets"`
	Tech        []string `yaml:"tech" json:"tech"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
	Images      []string `yaml:"images,omitempty" json:"images,omitempty"`
	ImageFit    string   `yaml:"imageFit,omitempty" json:"imageFit,omitempty"`
	Achievement string   `yaml:"achievement,omitempty" json:"achievement,omitempty"`
}

// Cover returns the image shown on the project card, or "" when there is none.
func (p Project) Cover() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Fit returns the object-fit for the project's images, "cover" by default.
func (p Project) Fit() string {
	if p.ImageFit == "" {
		return "cover"
	}
	return p.ImageFit
}

type Research struct {
	Title    string   `yaml:"title" json:"title"`
	Period   string   `yaml:"period" json:"period"`
	Overview string   `yaml:"overview" json:"overview"`
	Bullets  []string `yaml:"bullets" json:"bullets"`
	Tag      string   `yaml:"tag,omitempty" json:"tag,omitempty"`
	Link     string   `yaml:"link,omitempty" json:"link,omitempty"`
}

type ValueCard struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Tech        string `yaml:"tech,omitempty" json:"tech,omitempty"`
}

type Hero struct {
	Headline string `yaml:"headline" json:"headline"`
	Subtext  string `yaml:"subtext" json:"subtext"`
}

// Profile is the full content record. It is never modified after loading.
type Profile struct {
	Name        string       `yaml:"name" json:"name"`
	Title       string       `yaml:"title" json:"title"`
	School      string       `yaml:"school" json:"school"`
	Graduation  string       `yaml:"graduation" json:"graduation"`
	Location    string       `yaml:"location" json:"location"`
	Scholarship string       `yaml:"scholarship" json:"scholarship"`
	Email       string       `yaml:"email" json:"email"`
	EmailLabel  string       `yaml:"emailLabel,omitempty" json:"emailLabel,omitempty"`
	LinkedIn    string       `yaml:"linkedin" json:"linkedin"`
	Resume      string       `yaml:"resume" json:"resume"`
	Headshot    string       `yaml:"headshot,omitempty" json:"headshot,omitempty"`
	Keywords    []string     `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Hero        Hero         `yaml:"hero" json:"hero"`
	About       []string     `yaml:"about" json:"about"`
	ValueCards  []ValueCard  `yaml:"valueCards" json:"valueCards"`
	Experiences []Experience `yaml:"experiences" json:"experiences"`
	Projects    []Project    `yaml:"projects" json:"projects"`
	Research    []Research   `yaml:"research,omitempty" json:"research,omitempty"`
	Skills      []Skill      `yaml:"skills" json:"skills"`
}

// Default returns the profile bundled with the binary.
func Default() (*Profile, error) {
	return Parse(defaultProfile)
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the templates rely on.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile: name is required")
	}
	for _, s := range p.Skills {
		if !knownCategory(s.Category) {
			return fmt.Errorf("profile: skill %q has unknown category %q", s.Name, s.Category)
		}
	}
	for _, pr := range p.Projects {
		switch pr.ImageFit {
		case "", "cover", "contain":
		default:
			return fmt.Errorf("profile: project %q has invalid imageFit %q", pr.Title, pr.ImageFit)
		}
	}
	return nil
}

// SkillGroup is a category and its skills.
type SkillGroup struct {
	Category string
	Skills   []Skill
}

// SkillsByCategory groups skills in display order, skipping empty categories.
func (p *Profile) SkillsByCategory() []SkillGroup {
	var groups []SkillGroup
	for _, cat := range categories {
		g := SkillGroup{Category: cat}
		for _, s := range p.Skills {
			if s.Category == cat {
				g.Skills = append(g.Skills, s)
			}
		}
		if len(g.Skills) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// LocalAssets returns the site-relative files the profile links to, in
// profile order, without duplicates.
func (p *Profile) LocalAssets() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		if strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	add(p.Headshot)
	add(p.Resume)
	for _, pr := range p.Projects {
		add(pr.Image)
		for _, img := range pr.Images {
			add(img)
		}
	}
	for _, r := range p.Research {
		add(r.Link)
	}
	return out
}

// EmailText is the address shown to visitors.
func (p *Profile) EmailText() string {
	if p.EmailLabel != "" {
		return p.EmailLabel
	}
	return p.Email
}

func knownCategory(c string) bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}
