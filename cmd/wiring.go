package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/naka-gawa/portfolio-api/internal/config"
	"github.com/naka-gawa/portfolio-api/internal/gateway"
	"github.com/naka-gawa/portfolio-api/internal/usecase"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}

// newSheetFetcher uses the Sheets API when a credentials file is configured
// and the published CSV export otherwise.
func newSheetFetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (gateway.SheetFetcher, error) {
	if cfg.SheetsCredentials == "" {
		return gateway.NewPublishedSheetGateway(cfg.SheetsBaseURL, nil, cfg.FetchTimeout, logger), nil
	}
	opts := []option.ClientOption{
		option.WithCredentialsFile(cfg.SheetsCredentials),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	g, err := gateway.NewSheetsAPIGateway(ctx, cfg.FetchTimeout, logger, opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newContentService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*usecase.ContentService, error) {
	fetcher, err := newSheetFetcher(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet gateway: %w", err)
	}
	return usecase.NewContentService(fetcher, cfg.SpreadsheetID, cfg.MetaTab, logger), nil
}

func newGitHubGateway(cfg *config.Config, logger *slog.Logger) (*gateway.GitHubGateway, error) {
	g, err := gateway.NewGitHubGateway(cfg.GitHubToken, gateway.GitHubOptions{
		GraphQLURL: cfg.GitHubGraphQLURL,
		RESTURL:    cfg.GitHubRESTURL,
		Timeout:    cfg.FetchTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return g, nil
}
