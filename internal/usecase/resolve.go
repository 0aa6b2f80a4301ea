package usecase

import "github.com/naka-gawa/portfolio-api/internal/domain"

// ResolveSection resolves every key of a key-value tab to lang. A key whose
// lang value is missing or empty gets the English value, and a key with
// neither resolves to "" rather than being dropped.
func ResolveSection(section domain.KeyValueSection, lang string) map[string]string {
	resolved := make(map[string]string, len(section))
	for key, values := range section {
		resolved[key] = resolveText(values, lang)
	}
	return resolved
}

// ResolveProjects resolves titles and descriptions to lang and copies the
// language-independent fields verbatim, keeping row order.
func ResolveProjects(records []domain.ProjectRecord, lang string) []domain.Project {
	projects := make([]domain.Project, 0, len(records))
	for _, r := range records {
		projects = append(projects, domain.Project{
			ID:          r.ID,
			Title:       resolveText(r.Titles, lang),
			Description: resolveText(r.Descriptions, lang),
			Tags:        r.Tags,
			RepoURL:     r.RepoURL,
			LiveURL:     r.LiveURL,
			ImageURL:    r.ImageURL,
		})
	}
	return projects
}

func resolveText(values map[string]string, lang string) string {
	if v := values[lang]; v != "" {
		return v
	}
	return values[domain.FallbackLang]
}
