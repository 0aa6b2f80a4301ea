package usecase

import (
	"context"
	"log/slog"

	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/gateway"
)

// StatsService serves the statistics of one configured account.
type StatsService struct {
	fetcher gateway.StatsFetcher
	login   string
	logger  *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(fetcher gateway.StatsFetcher, login string, logger *slog.Logger) *StatsService {
	return &StatsService{
		fetcher: fetcher,
		login:   login,
		logger:  logger,
	}
}

// Summary issues one upstream call and normalizes its result.
func (s *StatsService) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	raw, err := s.fetcher.FetchUserStats(ctx, s.login)
	if err != nil {
		return nil, err
	}
	summary, err := NormalizeStats(raw)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("statistics normalized", "login", s.login, "total", summary.TotalContributions)
	return summary, nil
}

// NormalizeStats flattens the nested upstream shape. Contribution levels are
// passed through untouched.
func NormalizeStats(raw *gateway.UserStats) (*domain.StatsSummary, error) {
	if raw == nil {
		return nil, &domain.UpstreamShapeError{Path: "data.user"}
	}
	cal := raw.ContributionsCollection.ContributionCalendar
	if cal == nil {
		return nil, &domain.UpstreamShapeError{Path: "data.user.contributionsCollection.contributionCalendar"}
	}

	weeks := make([]domain.ContributionWeek, 0, len(cal.Weeks))
	for _, w := range cal.Weeks {
		days := make([]domain.ContributionDay, 0, len(w.ContributionDays))
		for _, d := range w.ContributionDays {
			days = append(days, domain.ContributionDay{
				ContributionCount: d.ContributionCount,
				ContributionLevel: d.ContributionLevel,
				Date:              d.Date,
			})
		}
		weeks = append(weeks, domain.ContributionWeek{ContributionDays: days})
	}

	return &domain.StatsSummary{
		Followers:          raw.Followers.TotalCount,
		PublicRepos:        raw.Repositories.TotalCount,
		TotalContributions: cal.TotalContributions,
		ContributionCalendar: domain.ContributionCalendar{
			TotalContributions: cal.TotalContributions,
			Weeks:              weeks,
		},
	}, nil
}
