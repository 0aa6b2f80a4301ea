package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// StatsFetcher retrieves the raw statistics of one GitHub account.
type StatsFetcher interface {
	FetchUserStats(ctx context.Context, login string) (*UserStats, error)
}

// ProfileFetcher retrieves the public REST profile of one GitHub account.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, login string) (*Profile, error)
}

// UserStats is the upstream shape returned by the statistics query.
type UserStats struct {
	Followers struct {
		TotalCount int
	}
	Repositories struct {
		TotalCount int
	} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, isFork: false, privacy: PUBLIC)"`
	ContributionsCollection struct {
		ContributionCalendar *CalendarNode
	}
}

type CalendarNode struct {
	TotalContributions int
	Weeks              []struct {
		ContributionDays []struct {
			ContributionCount int
			ContributionLevel string
			Date              string
		}
	}
}

// userStatsQuery leaves User nil when the account does not resolve.
type userStatsQuery struct {
	User *UserStats `graphql:"user(login: $login)"`
}

// Profile is the subset of the REST user object used for diagnostics.
type Profile struct {
	Login       string
	Name        string
	HTMLURL     string
	Followers   int
	PublicRepos int
}

// GitHubOptions overrides endpoints and bounds each call.
type GitHubOptions struct {
	GraphQLURL string
	RESTURL    string
	Timeout    time.Duration
}

// GitHubGateway implements StatsFetcher and ProfileFetcher.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	timeout       time.Duration
	logger        *slog.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Requests carry the token as a bearer credential and wait out secondary rate
// limits for at most opts.Timeout.
func NewGitHubGateway(token string, opts GitHubOptions, logger *slog.Logger) (*GitHubGateway, error) {
	sleepLimit := opts.Timeout
	if sleepLimit <= 0 {
		sleepLimit = time.Minute
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(sleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.RESTURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.RESTURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub REST URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		timeout:       opts.Timeout,
		logger:        logger,
	}, nil
}

// FetchUserStats issues the single statistics query. A query failure is an
// *domain.UpstreamError; a response without the user is an
// *domain.UpstreamShapeError.
func (g *GitHubGateway) FetchUserStats(ctx context.Context, login string) (*UserStats, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	g.logger.Debug("fetching GitHub statistics", "login", login)
	var q userStatsQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, &domain.UpstreamError{Source: "github", ID: login, Err: fmt.Errorf("failed to execute GraphQL query: %w", err)}
	}
	if q.User == nil {
		return nil, &domain.UpstreamShapeError{Path: "data.user"}
	}
	return q.User, nil
}

// FetchProfile looks the account up through the REST API.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (*Profile, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, &domain.UpstreamError{Source: "github", ID: login, Err: fmt.Errorf("failed to get user with REST API: %w", err)}
	}
	return &Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		HTMLURL:     user.GetHTMLURL(),
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

func (g *GitHubGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return context.WithCancel(ctx)
}
