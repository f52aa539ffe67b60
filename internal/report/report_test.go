package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

func sampleParams() models.StrategyParameters {
	return models.StrategyParameters{
		Direction:             models.DirectionLong,
		InitialPrice:          100,
		AddDiffPercent:        5,
		TpPercent:             10,
		InitialMargin:         100,
		AddMarginBase:         100,
		MaxAdds:               1,
		Leverage:              10,
		TakerFee:              0.05,
		MakerFee:              0.02,
		MaintenanceMarginRate: 0.5,
		FundingRate:           0.01,
		FundingSettlements:    3,
		AmountMultiplier:      1,
		DiffMultiplier:        1,
	}
}

func simulate(t *testing.T, p models.StrategyParameters) *models.MartingaleResult {
	t.Helper()
	res, err := calc.Simulate(p)
	require.NoError(t, err)
	return res
}

func TestFixed_Rounding(t *testing.T) {
	assert.Equal(t, "97.435897", Fixed(3800.0/39, 6))
	assert.Equal(t, "0.00", Fixed(0, 2))
	assert.Equal(t, "-1.50", Fixed(-1.5, 2))
	assert.Equal(t, "12.50%", Percent(12.5, 2))
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+0.1000", Signed(0.1, 4))
	assert.Equal(t, "-0.1000", Signed(-0.1, 4))
	assert.Equal(t, "0.0000", Signed(0, 4))
	// округляется в ноль — без плюса
	assert.Equal(t, "0.0000", Signed(0.00001, 4))
}

func TestOptFixed_Nil(t *testing.T) {
	assert.Equal(t, "N/A", OptFixed(nil, 2))
	assert.Equal(t, "N/A", OptPercent(nil, 2))
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName(sampleParams(), "csv")
	assert.Equal(t,
		"Martingale_Long_P100.000000_Diff5.00_TP10.00_N1_L10x_TF0.050_MF0.020_MMR0.5_FR0.0100_FS3_AM1.00_DM1.00.csv",
		name)
}

func TestExportFileName_ShortNegativeFunding(t *testing.T) {
	p := sampleParams()
	p.Direction = models.DirectionShort
	p.FundingRate = -0.005
	p.Leverage = 12.7

	name := ExportFileName(p, "png")
	assert.True(t, strings.HasPrefix(name, "Martingale_Short_"))
	assert.Contains(t, name, "_L12x_")
	assert.Contains(t, name, "_FR-0.0050_")
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestExportFileName_ReplacesUnsafeChars(t *testing.T) {
	name := ExportFileName(sampleParams(), "a/b:c")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, ":")
	assert.True(t, strings.HasSuffix(name, ".a_b_c"))
}

func TestBuildSummary_PriceDiffRules(t *testing.T) {
	p := sampleParams()
	v := BuildSummary(simulate(t, p))
	assert.Equal(t, "-5.00%", v.PriceDiff)

	p.MaxAdds = 0
	v = BuildSummary(simulate(t, p))
	assert.Equal(t, "N/A (без доливок)", v.PriceDiff)

	// доливки заданы, но первая же цена невалидна
	p.MaxAdds = 2
	p.AddDiffPercent = 150
	res := simulate(t, p)
	require.True(t, res.Aborted())
	v = BuildSummary(res)
	assert.Equal(t, "0.00% (доливок не было)", v.PriceDiff)
	assert.Contains(t, v.Termination, "-50.00000000")
	assert.Equal(t, 0, v.StepsAccepted)
}

func TestBuildSummary_FundingSignAndTone(t *testing.T) {
	v := BuildSummary(simulate(t, sampleParams()))
	assert.True(t, strings.HasPrefix(v.FundingTotal, "+"))
	assert.Equal(t, calc.ToneAdverse, v.FundingTone)

	p := sampleParams()
	p.FundingRate = -0.01
	v = BuildSummary(simulate(t, p))
	assert.True(t, strings.HasPrefix(v.FundingTotal, "-"))
	assert.Equal(t, calc.ToneSafe, v.FundingTone)
}

func TestLiqPrice_FlooredLong(t *testing.T) {
	zero := 0.0
	assert.Equal(t, "≤0.000000", LiqPrice(models.DirectionLong, &zero))
	assert.Equal(t, "0.000000", LiqPrice(models.DirectionShort, &zero))
	assert.Equal(t, "N/A", LiqPrice(models.DirectionLong, nil))
}

func TestRenderCSV_Layout(t *testing.T) {
	res := simulate(t, sampleParams())
	out := RenderCSV(res)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "step,add_price,add_quantity,add_margin,opening_fee,unrealized_pnl,avg_price,tp_price,tp_profit,percent_to_tp,step_funding_cost,total_margin,total_quantity", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,100.000000,"))
	assert.True(t, strings.HasPrefix(lines[2], "1,95.000000,"))
	assert.Contains(t, out, "status,completed\n")
	assert.NotContains(t, out, "aborted_at_step")
}

func TestRenderCSV_Aborted(t *testing.T) {
	p := sampleParams()
	p.MaxAdds = 3
	p.AddDiffPercent = 60

	out := RenderCSV(simulate(t, p))
	assert.Contains(t, out, "status,aborted\n")
	assert.Contains(t, out, "aborted_at_step,2\n")
	assert.Contains(t, out, "aborted_add_price,-20.00000000\n")
}

func TestMartingaleMarkdown_TruncatesRows(t *testing.T) {
	p := sampleParams()
	p.MaxAdds = 6
	p.AddDiffPercent = 2

	out := MartingaleMarkdown(simulate(t, p), 3)
	assert.Contains(t, out, "ещё 4 шаг(ов)")
	assert.Contains(t, out, "*📊 Итог*")
	assert.Contains(t, out, "```")
}

func TestHelpMarkdown_ListsEveryColumn(t *testing.T) {
	out := HelpMarkdown()
	for _, c := range StepColumns {
		assert.Contains(t, out, c.Title)
	}
}

func TestStandardMarkdown(t *testing.T) {
	p := models.StandardTradeParameters{
		Direction:  models.DirectionLong,
		EntryPrice: 100,
		ExitPrice:  110,
		Quantity:   1,
		Leverage:   10,
	}
	r, err := calc.CalculateStandard(p)
	require.NoError(t, err)

	out := StandardMarkdown(p, r)
	assert.Contains(t, out, "PnL: `10.00 USDT`")
	assert.Contains(t, out, "ROE: `100.00%`")
	assert.Contains(t, out, "Ликвидация: `90.000000`")
}

func TestTermMartingale_ContainsTable(t *testing.T) {
	out := TermMartingale(simulate(t, sampleParams()))
	assert.Contains(t, out, "Средняя")
	assert.Contains(t, out, "95.000000")
}
