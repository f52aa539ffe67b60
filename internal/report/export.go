package report

import (
	"fmt"
	"strconv"
	"strings"

	"contract_calc/internal/models"
)

var unsafeFileChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// ExportFileName собирает имя файла выгрузки из ключевых параметров прогона.
// ext без точки: "csv", "png".
func ExportFileName(p models.StrategyParameters, ext string) string {
	dir := "Long"
	if p.Direction == models.DirectionShort {
		dir = "Short"
	}

	parts := []string{
		"Martingale",
		dir,
		"P" + Fixed(p.InitialPrice, 6),
		"Diff" + Fixed(p.AddDiffPercent, 2),
		"TP" + Fixed(p.TpPercent, 2),
		"N" + strconv.Itoa(p.MaxAdds),
		"L" + strconv.Itoa(int(p.Leverage)) + "x",
		"TF" + Fixed(p.TakerFee, 3),
		"MF" + Fixed(p.MakerFee, 3),
		"MMR" + Fixed(p.MaintenanceMarginRate, 1),
		"FR" + Fixed(p.FundingRate, 4),
		"FS" + strconv.Itoa(p.FundingSettlements),
		"AM" + Fixed(p.AmountMultiplier, 2),
		"DM" + Fixed(p.DiffMultiplier, 2),
	}
	return unsafeFileChars.Replace(strings.Join(parts, "_") + "." + ext)
}

// RenderCSV — все шаги и итог одним CSV. Поля только числовые, экранирование не нужно.
func RenderCSV(res *models.MartingaleResult) string {
	var sb strings.Builder

	keys := make([]string, 0, len(StepColumns)+3)
	for _, c := range StepColumns {
		keys = append(keys, c.Key)
	}
	keys = append(keys, "step_funding_cost", "total_margin", "total_quantity")
	sb.WriteString(strings.Join(keys, ","))
	sb.WriteString("\n")

	for _, s := range res.Steps {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			s.Step,
			Fixed(s.AddPrice, 6),
			Fixed(s.AddQuantity, 6),
			Fixed(s.AddMargin, 2),
			Fixed(s.OpeningFee, 6),
			Fixed(s.UnrealizedPnl, 4),
			Fixed(s.AvgPrice, 6),
			Fixed(s.TpPrice, 6),
			Fixed(s.TpProfit, 4),
			Fixed(s.PercentToTp, 4),
			Fixed(s.StepFundingCost, 6),
			Fixed(s.TotalMargin, 2),
			Fixed(s.TotalQuantity, 6),
		))
	}

	sum := res.Summary
	sb.WriteString("\n")
	sb.WriteString("summary,value\n")
	sb.WriteString("status," + string(res.Status) + "\n")
	sb.WriteString("final_avg_price," + Fixed(sum.FinalAvgPrice, 6) + "\n")
	sb.WriteString("total_margin," + Fixed(sum.TotalMargin, 2) + "\n")
	sb.WriteString("final_unrealized_pnl," + Fixed(sum.FinalUnrealizedPnl, 4) + "\n")
	sb.WriteString("estimated_liq_price," + OptFixed(sum.EstimatedLiqPrice, 6) + "\n")
	sb.WriteString("liq_diff_percent," + OptFixed(sum.LiqDiffPercentValue, 4) + "\n")
	sb.WriteString("price_diff_percent," + OptFixed(sum.PriceDiffPercentValue, 4) + "\n")
	sb.WriteString("total_estimated_funding_cost," + Fixed(sum.TotalEstimatedFundingCost, 6) + "\n")
	sb.WriteString("final_tp_profit," + Fixed(sum.FinalTpProfit, 4) + "\n")
	if res.Termination != nil {
		sb.WriteString(fmt.Sprintf("aborted_at_step,%d\n", res.Termination.Step))
		sb.WriteString("aborted_add_price," + Fixed(res.Termination.AddPrice, 8) + "\n")
	}

	return sb.String()
}
