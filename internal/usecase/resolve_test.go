package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

func TestResolveSection(t *testing.T) {
	section := domain.KeyValueSection{
		"bio":      {"en": "Hello", "id": "Halo"},
		"tagline":  {"en": "Builder"},
		"subtitle": {"en": "Engineer", "id": ""},
		"blank":    {"en": "", "id": ""},
	}

	testCases := []struct {
		name     string
		lang     string
		expected map[string]string
	}{
		{
			name:     "target language wins when present",
			lang:     "id",
			expected: map[string]string{"bio": "Halo", "tagline": "Builder", "subtitle": "Engineer", "blank": ""},
		},
		{
			name:     "english only keys resolve for any language",
			lang:     "ja",
			expected: map[string]string{"bio": "Hello", "tagline": "Builder", "subtitle": "Engineer", "blank": ""},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveSection(section, tc.lang))
		})
	}
}

func TestResolveProjects(t *testing.T) {
	records, err := ParseProjects("id,title_en,title_id,description_en,tags\n1,Site,Situs,A site,\"js,react\"\n")
	require.NoError(t, err)

	projects := ResolveProjects(records, "id")

	require.Len(t, projects, 1)
	assert.Equal(t, domain.Project{ID: "1", Title: "Situs", Description: "A site", Tags: "js,react"}, projects[0])
}

func TestResolveProjects_Empty(t *testing.T) {
	projects := ResolveProjects(nil, "en")
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestParseProjects_RequiredFields(t *testing.T) {
	_, err := ParseProjects("id,title_en,tags\n1,Site,go\n")
	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Msg, "description_en")
}

func TestParseMeta(t *testing.T) {
	meta, err := ParseMeta("key,value\nsupported_langs,\"en,id\"\ndefault_lang,en\n")
	require.NoError(t, err)
	assert.Equal(t, domain.MetaRecord{"supported_langs": "en,id", "default_lang": "en"}, meta)

	_, err = ParseMeta("key,val\na,b\n")
	var parseErr *domain.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
