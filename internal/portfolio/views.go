package portfolio

import (
	"html/template"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/navigation"
)

// Page is everything the layout template needs for one section. Exactly one
// of the section views is set.
type Page struct {
	Title   string
	Active  navigation.Section
	Nav     []NavItem
	Sidebar Sidebar

	Home     *HomeView
	Projects *ProjectsView
	Resume   *ResumeSkillsView
	Contact  *ContactView
}

type NavItem struct {
	Label  string
	Slug   string
	Icon   string
	Active bool
}

type Sidebar struct {
	Name         string
	Location     string
	LinkedInHref string
	GitHubHref   string
}

type HomeView struct {
	Greeting string
	Title    string
	About    template.HTML
	Banner   string

	ResumeAvailable bool
	ResumeURL       string
	ResumeFilename  string
	ResumeWarning   string

	// Image is nil when the profile image could not be loaded; the template
	// then shows Placeholder in a circular frame.
	Image       *ImageView
	Placeholder string
}

type ImageView struct {
	Src    template.URL
	Width  int
	Height int
	Alt    string
}

type ProjectsView struct {
	Heading string
	Intro   string
	Cards   []ProjectCard
}

type ProjectCard struct {
	Key         string
	Title       string
	Type        string
	Description string
	Tech        []string
	Glyph       string
	Link        string
	External    bool
	VisitURL    string
}

type ResumeSkillsView struct {
	Heading    string
	Skills     []content.SkillGroup
	Education  content.Education
	Experience template.HTML
}

type ContactView struct {
	Heading      string
	Availability string
	Email        string
	LinkedIn     string
	LinkedInHref string
	GitHub       string
	GitHubHref   string

	// Acknowledgment replaces the form after a submission without HTMX.
	Acknowledgment string
}
