// Package navigation defines the closed set of sections a visitor can select
// from the sidebar menu.
package navigation

// Section is one of the four menu entries. The zero value is Home.
type Section int

const (
	Home Section = iota
	Projects
	ResumeSkills
	Contact
)

// Initial is the section every new session starts on.
const Initial = Home

var sections = []Section{Home, Projects, ResumeSkills, Contact}

// Sections returns the menu entries in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Parse maps a URL slug back to its section.
func Parse(slug string) (Section, bool) {
	for _, s := range sections {
		if s.Slug() == slug {
			return s, true
		}
	}
	return Home, false
}

// Valid reports whether s is one of the defined sections.
func (s Section) Valid() bool {
	return s >= Home && s <= Contact
}

// Label is the text shown in the menu.
func (s Section) Label() string {
	switch s {
	case Home:
		return "Home"
	case Projects:
		return "Projects"
	case ResumeSkills:
		return "Resume & Skills"
	case Contact:
		return "Contact"
	}
	return ""
}

// Slug is the path segment used in /section/:slug.
func (s Section) Slug() string {
	switch s {
	case Home:
		return "home"
	case Projects:
		return "projects"
	case ResumeSkills:
		return "resume-skills"
	case Contact:
		return "contact"
	}
	return ""
}

// Icon is the Bootstrap icon name rendered next to the label.
func (s Section) Icon() string {
	switch s {
	case Home:
		return "house"
	case Projects:
		return "code-slash"
	case ResumeSkills:
		return "file-earmark-person"
	case Contact:
		return "envelope"
	}
	return ""
}

func (s Section) String() string {
	return s.Slug()
}
