package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Shorya Pahuja", p.Name)
	assert.Equal(t, "spahuja2@uwo.ca", p.EmailText())
	assert.Len(t, p.Experiences, 2)
	assert.Len(t, p.Projects, 3)
	assert.Len(t, p.Research, 1)
	assert.Len(t, p.Skills, 12)
	assert.Contains(t, p.Hero.Subtext, "Seeking internships")
}

func TestSkillsByCategory(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	groups := p.SkillsByCategory()
	require.Len(t, groups, 3)
	assert.Equal(t, CategoryProgramming, groups[0].Category)
	assert.Equal(t, CategoryTools, groups[1].Category)
	assert.Equal(t, CategoryElectronics, groups[2].Category)
	assert.Len(t, groups[0].Skills, 3)
	assert.Len(t, groups[1].Skills, 5)
	assert.Len(t, groups[2].Skills, 4)
}

func TestLocalAssets(t *testing.T) {
	p := &Profile{
		Headshot: "/images/me.svg",
		Resume:   "https://example.com/cv.pdf",
		Projects: []Project{
			{Image: "/images/a.svg", Images: []string{"/images/a.svg", "/images/b.svg"}},
			{Images: []string{"//cdn.example.com/c.svg"}},
		},
		Research: []Research{{Link: "/static/paper.pdf"}, {Link: "https://example.com/x"}},
	}

	assert.Equal(t, []string{"/images/me.svg", "/images/a.svg", "/images/b.svg", "/static/paper.pdf"}, p.LocalAssets())
}

func TestProjectCoverAndFit(t *testing.T) {
	assert.Equal(t, "", Project{}.Cover())
	assert.Equal(t, "b.jpg", Project{Images: []string{"b.jpg"}}.Cover())
	assert.Equal(t, "a.jpg", Project{Image: "a.jpg", Images: []string{"b.jpg"}}.Cover())
	assert.Equal(t, "cover", Project{}.Fit())
	assert.Equal(t, "contain", Project{ImageFit: "contain"}.Fit())
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "title: x\n"},
		{"unknown category", "name: a\nskills:\n  - {name: Go, category: Cooking}\n"},
		{"bad image fit", "name: a\nprojects:\n  - {title: p, imageFit: stretch}\n"},
		{"not yaml", "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Test Person\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Person", p.Name)
	assert.Empty(t, p.SkillsByCategory())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
