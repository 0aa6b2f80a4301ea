package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// ComputeInsights derives daily figures from the calendar in day order.
// The current streak ignores a trailing zero day, since the last calendar day
// is today and may still receive contributions.
func ComputeInsights(summary *domain.StatsSummary) (*domain.CalendarInsights, error) {
	var days []domain.ContributionDay
	for _, w := range summary.ContributionCalendar.Weeks {
		days = append(days, w.ContributionDays...)
	}
	insights := &domain.CalendarInsights{Days: len(days)}
	if len(days) == 0 {
		return insights, nil
	}

	counts := make(stats.Float64Data, 0, len(days))
	run := 0
	for _, d := range days {
		counts = append(counts, float64(d.ContributionCount))
		if d.ContributionCount > 0 {
			insights.ActiveDays++
			run++
			if run > insights.LongestStreak {
				insights.LongestStreak = run
			}
		} else {
			run = 0
		}
		if d.ContributionCount > insights.BusiestCount {
			insights.BusiestCount = d.ContributionCount
			insights.BusiestDay = d.Date
		}
	}

	mean, err := stats.Mean(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median: %w", err)
	}
	insights.MeanPerDay, _ = stats.Round(mean, 2)
	insights.MedianPerDay = median

	end := len(days) - 1
	if days[end].ContributionCount == 0 {
		end--
	}
	for i := end; i >= 0 && days[i].ContributionCount > 0; i-- {
		insights.CurrentStreak++
	}
	return insights, nil
}
