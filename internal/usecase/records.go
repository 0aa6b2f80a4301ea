package usecase

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/tabular"
)

const (
	keyField   = "key"
	valueField = "value"

	titlePrefix       = "title_"
	descriptionPrefix = "description_"
)

// ParseMeta parses the meta tab, which has key and value columns.
func ParseMeta(text string) (domain.MetaRecord, error) {
	table, err := parseWithFields(text, keyField, keyField, valueField)
	if err != nil {
		return nil, fmt.Errorf("meta tab: %w", err)
	}
	meta := make(domain.MetaRecord, len(table.Keyed))
	for key, rec := range table.Keyed {
		meta[key] = rec[valueField]
	}
	return meta, nil
}

// ParseKeyValue parses a key-value tab: a key column plus one column per language.
func ParseKeyValue(text string) (domain.KeyValueSection, error) {
	table, err := parseWithFields(text, keyField, keyField, domain.FallbackLang)
	if err != nil {
		return nil, err
	}
	section := make(domain.KeyValueSection, len(table.Keyed))
	for key, rec := range table.Keyed {
		values := make(domain.KeyValueRecord, len(rec)-1)
		for field, v := range rec {
			if field != keyField {
				values[field] = v
			}
		}
		section[key] = values
	}
	return section, nil
}

// ParseProjects parses the list-shaped Projects tab.
func ParseProjects(text string) ([]domain.ProjectRecord, error) {
	table, err := parseWithFields(text, "", "id", titlePrefix+domain.FallbackLang, descriptionPrefix+domain.FallbackLang)
	if err != nil {
		return nil, err
	}
	projects := make([]domain.ProjectRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		p := domain.ProjectRecord{
			ID:           rec["id"],
			Titles:       map[string]string{},
			Descriptions: map[string]string{},
			Tags:         rec["tags"],
			RepoURL:      rec["repo_url"],
			LiveURL:      rec["live_url"],
			ImageURL:     rec["image_url"],
		}
		for field, v := range rec {
			switch {
			case strings.HasPrefix(field, titlePrefix):
				p.Titles[strings.TrimPrefix(field, titlePrefix)] = v
			case strings.HasPrefix(field, descriptionPrefix):
				p.Descriptions[strings.TrimPrefix(field, descriptionPrefix)] = v
			}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func parseWithFields(text, key string, required ...string) (*tabular.Table, error) {
	table, err := tabular.Parse(text, tabular.Options{HasHeader: true, KeyField: key})
	if err != nil {
		return nil, err
	}
	for _, f := range required {
		if !table.HasField(f) {
			return nil, &domain.ParseError{Line: 1, Msg: fmt.Sprintf("required field %q not found in header", f)}
		}
	}
	return table, nil
}
