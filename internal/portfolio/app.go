// Package portfolio turns the static site content into per-section view
// models and implements the few actions a visitor can take.
package portfolio

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"github.com/Zachkp/portfolio/internal/assets"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/markdown"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/navigation"
)

const (
	ResumeURL         = "/resume"
	ResumeContentType = "application/pdf"
	ResumeWarning     = "Resume file not found."

	defaultResumeFilename = "resume.pdf"
	defaultPlaceholder    = "👨‍💻"

	projectsHeading = "💻 Featured Projects"
	projectsIntro   = "A selection of my work in Data Analytics, Machine Learning, and Business Intelligence."
	resumeHeading   = "🚀 Skills & Qualifications"
	contactHeading  = "📬 Get In Touch"
)

// ErrUnknownSection is returned for a Section outside the navigation set.
var ErrUnknownSection = errors.New("unknown section")

// App renders the portfolio. It holds only immutable content and
// concurrency-safe collaborators, so one App serves every session.
type App struct {
	content *content.Content
	assets  *assets.Loader
	metrics *metrics.Metrics
	relay   Relay
	log     logger.Logger

	about      template.HTML
	experience template.HTML
}

// New builds an App. Markdown fields are rendered once here.
func New(c *content.Content, loader *assets.Loader, md *markdown.Renderer, m *metrics.Metrics, relay Relay, log logger.Logger) (*App, error) {
	about, err := md.Render(c.Profile.About)
	if err != nil {
		return nil, fmt.Errorf("about: %w", err)
	}
	experience, err := md.Render(c.Resume.Experience)
	if err != nil {
		return nil, fmt.Errorf("experience: %w", err)
	}

	return &App{
		content:    c,
		assets:     loader,
		metrics:    m,
		relay:      relay,
		log:        log,
		about:      about,
		experience: experience,
	}, nil
}

// Render builds the page for section.
func (a *App) Render(section navigation.Section) (*Page, error) {
	page := &Page{
		Title:   a.content.Profile.Name + " Portfolio",
		Active:  section,
		Nav:     a.nav(section),
		Sidebar: a.sidebar(),
	}

	switch section {
	case navigation.Home:
		page.Home = a.home()
	case navigation.Projects:
		page.Projects = a.projects()
	case navigation.ResumeSkills:
		page.Resume = a.resumeSkills()
	case navigation.Contact:
		page.Contact = a.contact()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSection, int(section))
	}

	a.metrics.SectionViews.WithLabelValues(section.Slug()).Inc()
	return page, nil
}

func (a *App) nav(active navigation.Section) []NavItem {
	sections := navigation.Sections()
	items := make([]NavItem, 0, len(sections))
	for _, s := range sections {
		items = append(items, NavItem{
			Label:  s.Label(),
			Slug:   s.Slug(),
			Icon:   s.Icon(),
			Active: s == active,
		})
	}
	return items
}

func (a *App) sidebar() Sidebar {
	p := a.content.Profile
	return Sidebar{
		Name:         p.Name,
		Location:     p.Location,
		LinkedInHref: p.LinkedInHref(),
		GitHubHref:   p.GitHubHref(),
	}
}

// home checks both assets for this render only. Either may fail without
// affecting the other.
func (a *App) home() *HomeView {
	p := a.content.Profile

	view := &HomeView{
		Greeting:       p.DisplayName(),
		Title:          p.Title,
		About:          a.about,
		Banner:         p.Availability,
		ResumeFilename: a.resumeFilename(),
		Placeholder:    p.PlaceholderGlyph,
	}
	if view.Placeholder == "" {
		view.Placeholder = defaultPlaceholder
	}

	if err := a.assets.ResumeAvailable(p.ResumePath); err != nil {
		a.fallback("resume", err)
		view.ResumeWarning = ResumeWarning
	} else {
		view.ResumeAvailable = true
		view.ResumeURL = ResumeURL
	}

	img, err := a.assets.ProfileImage(p.ImagePath)
	if err != nil {
		a.fallback("profile_image", err)
	} else {
		view.Image = &ImageView{
			Src:    template.URL(img.DataURI()), //nolint:gosec // data URI built from our own PNG encoding
			Width:  img.Width,
			Height: img.Height,
			Alt:    p.Name,
		}
	}

	return view
}

func (a *App) fallback(asset string, err error) {
	a.metrics.AssetFallbacks.WithLabelValues(asset).Inc()
	a.log.Warn("Optional asset unavailable, using fallback",
		logger.String("asset", asset),
		logger.Error(err),
	)
}

func (a *App) projects() *ProjectsView {
	cards := make([]ProjectCard, 0, len(a.content.Projects))
	for _, p := range a.content.Projects {
		cards = append(cards, ProjectCard{
			Key:         p.Key(),
			Title:       p.Title,
			Type:        p.Type,
			Description: p.Description,
			Tech:        p.Tech,
			Glyph:       p.Glyph,
			Link:        p.Link,
			External:    p.External(),
			VisitURL:    VisitPath(p.Key()),
		})
	}

	return &ProjectsView{
		Heading: projectsHeading,
		Intro:   projectsIntro,
		Cards:   cards,
	}
}

func (a *App) resumeSkills() *ResumeSkillsView {
	return &ResumeSkillsView{
		Heading:    resumeHeading,
		Skills:     a.content.Resume.Skills,
		Education:  a.content.Resume.Education,
		Experience: a.experience,
	}
}

func (a *App) contact() *ContactView {
	p := a.content.Profile
	return &ContactView{
		Heading:      contactHeading,
		Availability: p.Availability,
		Email:        p.Email,
		LinkedIn:     p.LinkedInURL,
		LinkedInHref: p.LinkedInHref(),
		GitHub:       p.GitHubURL,
		GitHubHref:   p.GitHubHref(),
	}
}

func (a *App) resumeFilename() string {
	if f := a.content.Profile.ResumeFilename; f != "" {
		return f
	}
	return defaultResumeFilename
}

// VisitPath is the route activating a project's View Project action.
func VisitPath(key string) string {
	return "/projects/" + url.PathEscape(key) + "/visit"
}
