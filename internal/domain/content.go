// Package domain contains the core data structures and domain logic for the application.
// Every value here is built per request and discarded once the response is written.
package domain

// Well-known meta tab keys.
const (
	MetaSupportedLangs = "supported_langs"
	MetaDefaultLang    = "default_lang"
	MetaSiteName       = "site_name"
)

// FallbackLang is consulted whenever the effective language has no value.
const FallbackLang = "en"

// Section names, in the order the front end renders them.
const (
	SectionHome     = "Home"
	SectionAbout    = "About"
	SectionProjects = "Projects"
	SectionContact  = "Contact"
)

// Sections lists every content section backed by its own tab.
var Sections = []string{SectionHome, SectionAbout, SectionProjects, SectionContact}

// MetaRecord maps a meta tab key to its value.
type MetaRecord map[string]string

// TabKey returns the meta key holding the tab id of a section, e.g. "About_gid".
func TabKey(section string) string {
	return section + "_gid"
}

// KeyValueRecord is one row of a key-value tab: language code to text.
type KeyValueRecord map[string]string

// KeyValueSection is a key-value tab keyed by the row's content key.
type KeyValueSection map[string]KeyValueRecord

// ProjectRecord is one row of the Projects tab before language resolution.
// Titles and Descriptions are keyed by language code.
type ProjectRecord struct {
	ID           string
	Titles       map[string]string
	Descriptions map[string]string
	Tags         string
	RepoURL      string
	LiveURL      string
	ImageURL     string
}

// Project is a ProjectRecord resolved to one language.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	RepoURL     string `json:"repo_url"`
	LiveURL     string `json:"live_url"`
	ImageURL    string `json:"image_url"`
}

// ResolvedContent is the body of /content/:lang. Home also carries site_name.
type ResolvedContent struct {
	Home     map[string]string `json:"Home"`
	About    map[string]string `json:"About"`
	Projects []Project         `json:"Projects"`
	Contact  map[string]string `json:"Contact"`
}
