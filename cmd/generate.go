package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/engine"
)

var (
	generateLimit    int
	generateUseCache bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the recommendation pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		recs, summary, err := env.Engine.Generate(ctx, engine.Options{
			UseCache: generateUseCache,
			Limit:    generateLimit,
			Trigger:  "manual",
		})
		if err != nil {
			return err
		}

		zap.L().Info("generation complete", zap.Int("recommendations", len(recs)))

		out := struct {
			Recommendations any `json:"recommendations"`
			Summary         any `json:"summary,omitempty"`
		}{Recommendations: recs, Summary: summary}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateLimit, "limit", 0, "best sellers to seed matching (default from config)")
	generateCmd.Flags().BoolVar(&generateUseCache, "use-cache", false, "serve recent persisted recommendations when available")
	rootCmd.AddCommand(generateCmd)
}
