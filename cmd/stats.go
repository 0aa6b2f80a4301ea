package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-api/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetches GitHub statistics for the configured account and outputs them as JSON",
	Long: `Fetches follower and public repository counts and the contribution calendar of the
configured GitHub account (GITHUB_USERNAME, GITHUB_PAT) and prints the same JSON as
the /github route. With --insights, daily averages and streaks are printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd, false)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}
		if err := cfg.RequireStats(); err != nil {
			fatalf("Error: %v", err)
		}
		insights, _ := cmd.Flags().GetBool("insights")

		// Inject dependencies and run the main business logic.
		githubGateway, err := newGitHubGateway(cfg, logger)
		if err != nil {
			fatalf("%v", err)
		}
		service := usecase.NewStatsService(githubGateway, cfg.GitHubUser, logger)

		summary, err := service.Summary(ctx)
		if err != nil {
			fatalf("Failed to fetch statistics: %v", err)
		}

		var out any = summary
		if insights {
			out, err = usecase.ComputeInsights(summary)
			if err != nil {
				fatalf("Failed to compute insights: %v", err)
			}
		}
		printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("insights", false, "Print calendar insights instead of the raw summary")
}

// printJSON marshals v into a pretty-printed JSON string on standard output.
func printJSON(v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("Failed to marshal results to JSON: %v", err)
	}
	fmt.Println(string(jsonData))
}

