package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

func calendarOf(counts ...int) *domain.StatsSummary {
	days := make([]domain.ContributionDay, 0, len(counts))
	for i, c := range counts {
		days = append(days, domain.ContributionDay{ContributionCount: c, Date: string(rune('a' + i))})
	}
	return &domain.StatsSummary{ContributionCalendar: domain.ContributionCalendar{
		Weeks: []domain.ContributionWeek{{ContributionDays: days[:len(days)/2]}, {ContributionDays: days[len(days)/2:]}},
	}}
}

func TestComputeInsights(t *testing.T) {
	testCases := []struct {
		name     string
		summary  *domain.StatsSummary
		expected domain.CalendarInsights
	}{
		{
			name:     "empty calendar",
			summary:  &domain.StatsSummary{},
			expected: domain.CalendarInsights{},
		},
		{
			name:    "streaks and busiest day",
			summary: calendarOf(1, 2, 0, 4, 4, 1),
			expected: domain.CalendarInsights{
				Days: 6, ActiveDays: 5, MeanPerDay: 2, MedianPerDay: 1.5,
				BusiestDay: "d", BusiestCount: 4, LongestStreak: 3, CurrentStreak: 3,
			},
		},
		{
			name:    "a zero today keeps the current streak",
			summary: calendarOf(0, 3, 3, 0),
			expected: domain.CalendarInsights{
				Days: 4, ActiveDays: 2, MeanPerDay: 1.5, MedianPerDay: 1.5,
				BusiestDay: "b", BusiestCount: 3, LongestStreak: 2, CurrentStreak: 2,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			insights, err := ComputeInsights(tc.summary)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *insights)
		})
	}
}
