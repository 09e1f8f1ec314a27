package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/catalog"
	"github.com/gurlaesthetic/sourcing-cli/internal/fetcher"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
)

var sourcesTestKeyword string

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect and probe the configured source adapters",
}

var sourcesTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe each source adapter with a single keyword",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f := fetcher.NewHTTP(cfg.Fetch)
		registry := catalog.NewDefaultRegistry(f, cfg.Sourcing.UseLiveSources)

		type probe struct {
			Platform model.Platform `json:"platform"`
			Role     string         `json:"role"`
			Found    int            `json:"found"`
			OK       bool           `json:"ok"`
			Error    string         `json:"error,omitempty"`
			Sample   string         `json:"sample,omitempty"`
		}

		runProbe := func(adapter catalog.SourceAdapter, role string) probe {
			res, err := adapter.Source(ctx, []string{sourcesTestKeyword})

			p := probe{Platform: adapter.Platform(), Role: role}
			if err != nil {
				p.Error = err.Error()
			} else {
				p.Found = len(res.Products)
				p.OK = res.OK
				p.Error = res.Err
				if len(res.Products) > 0 {
					p.Sample = res.Products[0].Name
				}
			}

			zap.L().Info("adapter probe complete",
				zap.String("platform", string(p.Platform)),
				zap.String("role", role),
				zap.Int("found", p.Found),
				zap.Bool("ok", p.OK))
			return p
		}

		probes := make([]probe, 0, 2*len(registry.Platforms()))
		for _, adapter := range registry.All() {
			probes = append(probes, runProbe(adapter, "primary"))
			if fb := registry.Fallback(adapter.Platform()); fb != nil {
				probes = append(probes, runProbe(fb, "fallback"))
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(probes)
	},
}

func init() {
	sourcesTestCmd.Flags().StringVar(&sourcesTestKeyword, "keyword", "nail art", "keyword to probe with")
	sourcesCmd.AddCommand(sourcesTestCmd)
	rootCmd.AddCommand(sourcesCmd)
}
