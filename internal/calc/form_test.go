package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/models"
)

func validForm() map[string]string {
	return map[string]string{
		FieldDirection:             "long",
		FieldInitialPrice:          "100",
		FieldAddDiffPercent:        "5",
		FieldTpPercent:             "10",
		FieldInitialMargin:         "100",
		FieldAddMargin:             "100",
		FieldMaxAdds:               "1",
		FieldLeverage:              "10",
		FieldTakerFee:              "0,05",
		FieldMakerFee:              "0.02",
		FieldMaintenanceMarginRate: "0.5",
		FieldFundingRate:           "-0.01",
		FieldFundingSettlements:    "3",
		FieldAmountMultiplier:      "1",
		FieldDiffMultiplier:        "1",
	}
}

func TestParseStrategyForm_Valid(t *testing.T) {
	p, err := ParseStrategyForm(validForm())
	require.NoError(t, err)

	assert.Equal(t, models.DirectionLong, p.Direction)
	assert.Equal(t, 100.0, p.InitialPrice)
	assert.Equal(t, 1, p.MaxAdds)
	assert.Equal(t, 0.05, p.TakerFee)
	assert.Equal(t, -0.01, p.FundingRate)
	assert.Equal(t, 3, p.FundingSettlements)
}

func TestParseStrategyForm_ReportsEveryBadField(t *testing.T) {
	form := validForm()
	form[FieldInitialPrice] = "abc"
	form[FieldLeverage] = ""
	form[FieldMaxAdds] = "1.5"
	form[FieldTakerFee] = "-1"
	form[FieldFundingRate] = "NaN"
	form[FieldDiffMultiplier] = "+Inf"
	form[FieldDirection] = "up"

	_, err := ParseStrategyForm(form)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := verrs.Fields()
	assert.Len(t, fields, 7)
	assert.Equal(t, "must be a number", fields[FieldInitialPrice])
	assert.Equal(t, "is required", fields[FieldLeverage])
	assert.Equal(t, "must be an integer", fields[FieldMaxAdds])
	assert.Equal(t, "must not be negative", fields[FieldTakerFee])
	assert.Equal(t, "must be a number", fields[FieldFundingRate])
	assert.Equal(t, "must be a number", fields[FieldDiffMultiplier])
	assert.Equal(t, "must be long or short", fields[FieldDirection])
}

func TestParseStrategyForm_RoundTrip(t *testing.T) {
	p, err := ParseStrategyForm(StrategyForm(ladderParams()))
	require.NoError(t, err)
	assert.Equal(t, ladderParams(), p)
}

func TestParseStandardForm_PercentToDecimal(t *testing.T) {
	p, err := ParseStandardForm(map[string]string{
		FieldDirection:             "Short",
		FieldEntryPrice:            "100",
		FieldExitPrice:             "90",
		FieldQuantity:              "2",
		FieldLeverage:              "5",
		FieldTakerFee:              "0.05",
		FieldMaintenanceMarginRate: "0.5",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DirectionShort, p.Direction)
	assert.InDelta(t, 0.0005, p.TakerFeeRate, 1e-15)
	assert.InDelta(t, 0.005, p.MaintenanceMarginRate, 1e-15)
}

func TestParseStandardForm_MaintenanceMarginUpperBound(t *testing.T) {
	_, err := ParseStandardForm(map[string]string{
		FieldDirection:             "long",
		FieldEntryPrice:            "100",
		FieldExitPrice:             "110",
		FieldQuantity:              "1",
		FieldLeverage:              "0",
		FieldTakerFee:              "0",
		FieldMaintenanceMarginRate: "100",
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(FieldMaintenanceMarginRate))
	assert.True(t, verrs.Has(FieldLeverage))
	assert.Len(t, verrs, 2)
}

func TestStandardForm_RoundTrip(t *testing.T) {
	in := models.StandardTradeParameters{
		Direction:             models.DirectionLong,
		EntryPrice:            2500.5,
		ExitPrice:             2600,
		Quantity:              0.3,
		Leverage:              20,
		TakerFeeRate:          0.0005,
		MaintenanceMarginRate: 0.004,
	}

	out, err := ParseStandardForm(StandardForm(in))
	require.NoError(t, err)
	assert.Equal(t, in.Direction, out.Direction)
	assert.Equal(t, in.EntryPrice, out.EntryPrice)
	assert.Equal(t, in.Quantity, out.Quantity)
	assert.InDelta(t, in.TakerFeeRate, out.TakerFeeRate, 1e-15)
	assert.InDelta(t, in.MaintenanceMarginRate, out.MaintenanceMarginRate, 1e-15)
}
