package report

import "github.com/shopspring/decimal"

const (
	// Quote — валюта маржи, в ней же считаются все суммы.
	Quote = "USDT"

	notApplicable = "N/A"
)

// Fixed — число с фиксированным количеством знаков, округление половины от нуля.
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func Percent(v float64, places int32) string {
	return Fixed(v, places) + "%"
}

// Signed — как Fixed, но с явным "+" у положительных.
func Signed(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	if d.IsPositive() {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}

// OptFixed — nil печатается как N/A.
func OptFixed(v *float64, places int32) string {
	if v == nil {
		return notApplicable
	}
	return Fixed(*v, places)
}

func OptPercent(v *float64, places int32) string {
	if v == nil {
		return notApplicable
	}
	return Percent(*v, places)
}
