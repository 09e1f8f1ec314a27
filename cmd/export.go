package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/gurlaesthetic/sourcing-cli/internal/store"
)

var (
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored recommendations to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ListRecommendations(ctx, store.RecommendationFilter{Limit: exportLimit})
		if err != nil {
			return err
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Recommendations")
		if err != nil {
			return err
		}

		header := sheet.AddRow()
		for _, h := range []string{
			"Product", "Platform", "Supplier", "Price", "Currency",
			"Landed Cost", "Recommended Price", "Profit/Unit", "Margin %",
			"Break Even Qty", "Confidence", "Similarity", "Based On", "Reason", "Created",
		} {
			header.AddCell().SetString(h)
		}

		for _, rec := range recs {
			row := sheet.AddRow()
			row.AddCell().SetString(rec.Product.Name)
			row.AddCell().SetString(string(rec.Product.Platform))
			row.AddCell().SetString(rec.Product.SupplierName)
			row.AddCell().SetFloat(rec.Product.Price)
			row.AddCell().SetString(rec.Product.Currency)
			row.AddCell().SetFloat(rec.Cost.Total)
			row.AddCell().SetFloat(rec.Profit.RecommendedPrice)
			row.AddCell().SetFloat(rec.Profit.ProfitPerUnit)
			row.AddCell().SetFloat(rec.Profit.MarginPercent)
			row.AddCell().SetInt(rec.Profit.BreakEvenQuantity)
			row.AddCell().SetFloat(rec.Confidence)
			row.AddCell().SetFloat(rec.SimilarityScore)
			row.AddCell().SetString(rec.BasedOn.Name)
			row.AddCell().SetString(rec.Reason)
			row.AddCell().SetString(rec.CreatedAt.Format(time.RFC3339))
		}

		if err := file.Save(exportOutput); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOutput),
			zap.Int("rows", len(recs)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "recommendations.xlsx", "output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 100, "maximum recommendations to export")
	rootCmd.AddCommand(exportCmd)
}
