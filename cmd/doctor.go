package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-api/internal/config"
	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/gateway"
	"github.com/naka-gawa/portfolio-api/internal/usecase"
)

// Check statuses.
const (
	statusPass = "pass"
	statusFail = "fail"
	statusSkip = "skip"
)

// HealthCheck is the outcome of one doctor check.
type HealthCheck struct {
	Name   string
	Status string
	Detail string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Checks configuration, the meta tab and the GitHub account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd, false)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}

		var content *usecase.ContentService
		if cfg.RequireContent() == nil {
			if content, err = newContentService(ctx, cfg, logger); err != nil {
				fatalf("%v", err)
			}
		}
		var profiles gateway.ProfileFetcher
		if cfg.RequireStats() == nil {
			if profiles, err = newGitHubGateway(cfg, logger); err != nil {
				fatalf("%v", err)
			}
		}

		checks := runDoctorChecks(ctx, cfg, content, profiles)
		if failed := printChecks(os.Stdout, checks); failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctorChecks skips the upstream checks whose settings are missing.
func runDoctorChecks(ctx context.Context, cfg *config.Config, content *usecase.ContentService, profiles gateway.ProfileFetcher) []HealthCheck {
	var checks []HealthCheck

	if err := cfg.RequireContent(); err != nil {
		checks = append(checks, HealthCheck{Name: "content config", Status: statusFail, Detail: err.Error()})
	} else {
		checks = append(checks, HealthCheck{Name: "content config", Status: statusPass, Detail: "spreadsheet " + cfg.SpreadsheetID})
	}
	if err := cfg.RequireStats(); err != nil {
		checks = append(checks, HealthCheck{Name: "stats config", Status: statusFail, Detail: strings.ReplaceAll(err.Error(), "\n", "; ")})
	} else {
		checks = append(checks, HealthCheck{Name: "stats config", Status: statusPass, Detail: "account " + cfg.GitHubUser})
	}

	checks = append(checks, checkMetaTab(ctx, content))
	checks = append(checks, checkGitHubAccount(ctx, cfg.GitHubUser, profiles))
	return checks
}

func checkMetaTab(ctx context.Context, content *usecase.ContentService) HealthCheck {
	check := HealthCheck{Name: "meta tab"}
	if content == nil {
		check.Status, check.Detail = statusSkip, "content config missing"
		return check
	}
	meta, err := content.Meta(ctx)
	if err == nil {
		_, err = usecase.Negotiate("", meta)
	}
	if err == nil {
		_, err = usecase.SectionTabs(meta)
	}
	if err != nil {
		check.Status, check.Detail = statusFail, err.Error()
		return check
	}
	langs, _ := usecase.SupportedLangs(meta)
	check.Status = statusPass
	check.Detail = fmt.Sprintf("languages %s, default %s", strings.Join(langs, ","), meta[domain.MetaDefaultLang])
	return check
}

func checkGitHubAccount(ctx context.Context, login string, profiles gateway.ProfileFetcher) HealthCheck {
	check := HealthCheck{Name: "github account"}
	if profiles == nil {
		check.Status, check.Detail = statusSkip, "stats config missing"
		return check
	}
	profile, err := profiles.FetchProfile(ctx, login)
	if err != nil {
		check.Status, check.Detail = statusFail, err.Error()
		return check
	}
	check.Status = statusPass
	check.Detail = fmt.Sprintf("%s (%d followers, %d public repos)", profile.HTMLURL, profile.Followers, profile.PublicRepos)
	return check
}

// printChecks writes one line per check and returns the number of failures.
func printChecks(w io.Writer, checks []HealthCheck) int {
	failed := 0
	for _, c := range checks {
		if c.Status == statusFail {
			failed++
		}
		fmt.Fprintf(w, "[%s] %-15s %s\n", c.Status, c.Name, c.Detail)
	}
	return failed
}
