package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-api/internal/config"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Resolves the portfolio content for one language and outputs it as JSON",
	Long: `Reads the meta tab and the Home, About, Projects and Contact tabs of the configured
spreadsheet (SPREADSHEET_ID), resolves them to the requested language with English
fallback and prints the same JSON as the /content/:lang route.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd, false)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}
		if err := cfg.RequireContent(); err != nil {
			fatalf("Error: %v", err)
		}
		lang, _ := cmd.Flags().GetString("lang")

		service, err := newContentService(ctx, cfg, logger)
		if err != nil {
			fatalf("%v", err)
		}
		content, err := service.Content(ctx, lang)
		if err != nil {
			fatalf("Failed to resolve content: %v", err)
		}
		printJSON(content)
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.Flags().StringP("lang", "l", "en", "Requested language code")
	contentCmd.Flags().String("meta-tab", config.DefaultMetaTab, "Tab id of the meta tab")
}
