package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
)

func TestDefault_ProjectsInAuthoredOrder(t *testing.T) {
	t.Parallel()

	c, err := content.Default()
	require.NoError(t, err)

	var titles []string
	for _, p := range c.Projects {
		titles = append(titles, p.Title)
		assert.NotEmpty(t, p.Tech, p.Title)
	}

	assert.Equal(t, []string{
		"World Class Healthcare Dashboard",
		"Drone Weapon Detection System",
		"'7 Vogue' Market Analysis",
	}, titles)
	assert.Equal(t, "Manas", c.Profile.DisplayName())
	assert.Equal(t, "Manas_Bramhankar_Resume.pdf", c.Profile.ResumeFilename)
	assert.Len(t, c.Resume.Skills, 4)
	assert.Equal(t, "Sandip Foundation", c.Resume.Education.Institution)
}

func TestProject_KeyAndExternal(t *testing.T) {
	t.Parallel()

	c, err := content.Default()
	require.NoError(t, err)

	assert.Equal(t, "world-class-healthcare-dashboard", c.Projects[0].Key())
	assert.Equal(t, "7-vogue-market-analysis", c.Projects[2].Key())

	assert.False(t, c.Projects[0].External(), "# is not a navigable link")
	assert.True(t, c.Projects[1].External())

	p, ok := c.Find("drone-weapon-detection-system")
	require.True(t, ok)
	assert.Equal(t, "Drone Weapon Detection System", p.Title)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestProfile_Hrefs(t *testing.T) {
	t.Parallel()

	p := content.Profile{
		Name:        "Ada Lovelace",
		LinkedInURL: "www.linkedin.com/in/ada",
		GitHubURL:   "https://github.com/ada",
	}

	assert.Equal(t, "https://www.linkedin.com/in/ada", p.LinkedInHref())
	assert.Equal(t, "https://github.com/ada", p.GitHubHref())
	assert.Equal(t, "Ada", p.DisplayName())
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Hello World":               "hello-world",
		"  --Trim--  ":              "trim",
		"'7 Vogue' Market Analysis": "7-vogue-market-analysis",
		"C++ & Go!":                 "c-go",
		"🚁":                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, content.Slugify(in), in)
	}
}

const validDoc = `
profile:
  name: Ada Lovelace
  title: Analyst
projects:
  - title: Engine
    tech: [Python, Python]
`

func TestParse_KeepsDuplicateTags(t *testing.T) {
	t.Parallel()

	c, err := content.Parse([]byte(validDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Python"}, c.Projects[0].Tech)
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "duplicate titles",
			doc: `
profile: {name: A, title: B}
projects:
  - title: Same
  - title: Same
`,
		},
		{
			name: "colliding keys",
			doc: `
profile: {name: A, title: B}
projects:
  - title: Data Lab
  - title: data-lab
`,
			want: content.ErrDuplicateKey,
		},
		{
			name: "glyph-only title",
			doc: `
profile: {name: A, title: B}
projects:
  - title: "🚁"
`,
			want: content.ErrEmptyKey,
		},
		{
			name: "no projects",
			doc:  "profile: {name: A, title: B}\n",
		},
		{
			name: "missing name",
			doc: `
profile: {title: B}
projects:
  - title: One
`,
		},
		{
			name: "unknown field",
			doc: `
profile: {name: A, title: B, nickname: C}
projects:
  - title: One
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := content.Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "content.yml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o600))

	c, err := content.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.Profile.Name)

	_, err = content.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
