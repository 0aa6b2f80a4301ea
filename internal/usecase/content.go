// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/gateway"
)

// DefaultMetaTab is the tab id of the reserved meta tab.
const DefaultMetaTab = "0"

// ContentService assembles the localized site content from spreadsheet tabs.
type ContentService struct {
	sheets        gateway.SheetFetcher
	spreadsheetID string
	metaTab       string
	logger        *slog.Logger
}

// NewContentService creates a new ContentService. An empty metaTab selects DefaultMetaTab.
func NewContentService(sheets gateway.SheetFetcher, spreadsheetID, metaTab string, logger *slog.Logger) *ContentService {
	if metaTab == "" {
		metaTab = DefaultMetaTab
	}
	return &ContentService{
		sheets:        sheets,
		spreadsheetID: spreadsheetID,
		metaTab:       metaTab,
		logger:        logger,
	}
}

// Meta fetches and parses the meta tab.
func (s *ContentService) Meta(ctx context.Context) (domain.MetaRecord, error) {
	text, err := s.sheets.FetchTab(ctx, s.spreadsheetID, s.metaTab)
	if err != nil {
		return nil, err
	}
	return ParseMeta(text)
}

// SectionTabs returns the tab id of every section named in meta.
func SectionTabs(meta domain.MetaRecord) (map[string]string, error) {
	tabs := make(map[string]string, len(domain.Sections))
	for _, section := range domain.Sections {
		key := domain.TabKey(section)
		id := strings.TrimSpace(meta[key])
		if id == "" {
			return nil, &domain.ConfigError{Key: key}
		}
		tabs[section] = id
	}
	return tabs, nil
}

// Content performs the main business logic. It reads the meta tab, negotiates
// the language, fetches the four section tabs concurrently and resolves them.
// The first failing tab fails the whole call; no partial content is returned.
func (s *ContentService) Content(ctx context.Context, lang string) (*domain.ResolvedContent, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return nil, err
	}
	effective, err := Negotiate(lang, meta)
	if err != nil {
		return nil, err
	}
	tabs, err := SectionTabs(meta)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("resolving content", "requested", lang, "effective", effective)

	texts := make([]string, len(domain.Sections))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, section := range domain.Sections {
		eg.Go(func() error {
			text, err := s.sheets.FetchTab(egCtx, s.spreadsheetID, tabs[section])
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sections := make(map[string]map[string]string, 3)
	var projects []domain.Project
	for i, section := range domain.Sections {
		if section == domain.SectionProjects {
			records, err := ParseProjects(texts[i])
			if err != nil {
				return nil, fmt.Errorf("%s tab: %w", section, err)
			}
			projects = ResolveProjects(records, effective)
			continue
		}
		kv, err := ParseKeyValue(texts[i])
		if err != nil {
			return nil, fmt.Errorf("%s tab: %w", section, err)
		}
		sections[section] = ResolveSection(kv, effective)
	}

	home := sections[domain.SectionHome]
	home[domain.MetaSiteName] = meta[domain.MetaSiteName]

	s.logger.Debug("content resolved", "lang", effective, "projects", len(projects))
	return &domain.ResolvedContent{
		Home:     home,
		About:    sections[domain.SectionAbout],
		Projects: projects,
		Contact:  sections[domain.SectionContact],
	}, nil
}
