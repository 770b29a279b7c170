// Package content holds the static portfolio data: profile, projects and the
// resume block. The data is authored in YAML; a default document is compiled
// into the binary and may be replaced by an external file.
package content

import (
	"net/url"
	"strings"
	"unicode"
)

// Content is everything the site renders.
type Content struct {
	Profile  Profile   `yaml:"profile"`
	Projects []Project `validate:"required,min=1,unique=Title,dive" yaml:"projects"`
	Resume   Resume    `yaml:"resume"`
}

// Profile describes the site owner.
type Profile struct {
	Name             string `validate:"required" yaml:"name"`
	Greeting         string `yaml:"greeting"`
	Title            string `validate:"required" yaml:"title"`
	Location         string `yaml:"location"`
	Email            string `yaml:"email"`
	LinkedInURL      string `yaml:"linkedin_url"`
	GitHubURL        string `yaml:"github_url"`
	Availability     string `yaml:"availability"`
	About            string `yaml:"about"`
	ImagePath        string `yaml:"image_path"`
	ResumePath       string `yaml:"resume_path"`
	ResumeFilename   string `yaml:"resume_filename"`
	PlaceholderGlyph string `yaml:"placeholder_glyph"`
}

// Project is one entry on the projects page. Title doubles as the display
// key and must be unique across the list.
type Project struct {
	Title       string   `validate:"required" yaml:"title"`
	Type        string   `yaml:"type"`
	Tech        []string `yaml:"tech"`
	Description string   `yaml:"description"`
	Link        string   `yaml:"link"`
	Glyph       string   `yaml:"glyph"`
}

// Resume is the skills, education and experience block. It shares no data
// with Profile or Project.
type Resume struct {
	Skills     []SkillGroup `yaml:"skills"`
	Education  Education    `yaml:"education"`
	Experience string       `yaml:"experience"`
}

// SkillGroup is a labelled list of free-text skills.
type SkillGroup struct {
	Label string   `yaml:"label"`
	Items []string `yaml:"items"`
}

// Education is a single degree record.
type Education struct {
	Degree      string   `yaml:"degree"`
	Institution string   `yaml:"institution"`
	Expected    string   `yaml:"expected"`
	Grade       string   `yaml:"grade"`
	Coursework  []string `yaml:"coursework"`
}

// DisplayName is the short name used in the home heading.
func (p Profile) DisplayName() string {
	if p.Greeting != "" {
		return p.Greeting
	}
	if first, _, ok := strings.Cut(p.Name, " "); ok {
		return first
	}
	return p.Name
}

// LinkedInHref returns the LinkedIn URL with a scheme so it works as an
// anchor target.
func (p Profile) LinkedInHref() string {
	return withScheme(p.LinkedInURL)
}

// GitHubHref returns the GitHub URL with a scheme.
func (p Profile) GitHubHref() string {
	return withScheme(p.GitHubURL)
}

func withScheme(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// Key is the action key derived from the title, used in the project visit
// route.
func (p Project) Key() string {
	return Slugify(p.Title)
}

// External reports whether Link is an absolute http(s) URL a browser can be
// redirected to.
func (p Project) External() bool {
	u, err := url.Parse(p.Link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Find returns the project with the given action key.
func (c *Content) Find(key string) (Project, bool) {
	for _, p := range c.Projects {
		if p.Key() == key {
			return p, true
		}
	}
	return Project{}, false
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
