package domain

// StatsSummary is the flattened view of a GitHub account served by /github.
// TotalContributions is copied from the upstream calendar, never recomputed.
type StatsSummary struct {
	Followers            int                  `json:"followers"`
	PublicRepos          int                  `json:"publicRepos"`
	TotalContributions   int                  `json:"totalContributions"`
	ContributionCalendar ContributionCalendar `json:"contributionCalendar"`
}

// ContributionCalendar keeps the upstream week/day grouping in order.
type ContributionCalendar struct {
	TotalContributions int                `json:"totalContributions"`
	Weeks              []ContributionWeek `json:"weeks"`
}

type ContributionWeek struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ContributionDay is a single calendar cell. Level is an opaque upstream token
// such as "NONE" or "FIRST_QUARTILE".
type ContributionDay struct {
	ContributionCount int    `json:"contributionCount"`
	ContributionLevel string `json:"contributionLevel"`
	Date              string `json:"date"`
}

// CalendarInsights are derived figures printed by `stats --insights`.
type CalendarInsights struct {
	Days          int     `json:"days"`
	ActiveDays    int     `json:"active_days"`
	MeanPerDay    float64 `json:"mean_per_day"`
	MedianPerDay  float64 `json:"median_per_day"`
	BusiestDay    string  `json:"busiest_day"`
	BusiestCount  int     `json:"busiest_count"`
	LongestStreak int     `json:"longest_streak"`
	CurrentStreak int     `json:"current_streak"`
}
