package models

// StandardTradeParameters — одна сделка вход/выход.
// В отличие от мартингейла ставки здесь десятичные: 0.0005 => 0.05%.
type StandardTradeParameters struct {
	Direction             Direction `json:"direction" yaml:"direction"`
	EntryPrice            float64   `json:"entry_price" yaml:"entry_price"`
	ExitPrice             float64   `json:"exit_price" yaml:"exit_price"`
	Quantity              float64   `json:"quantity" yaml:"quantity"`
	Leverage              float64   `json:"leverage" yaml:"leverage"`
	TakerFeeRate          float64   `json:"taker_fee_rate" yaml:"taker_fee_rate"`
	MaintenanceMarginRate float64   `json:"maintenance_margin_rate" yaml:"maintenance_margin_rate"`
}

type StandardTradeResult struct {
	Pnl              float64  `json:"pnl"`
	Roe              float64  `json:"roe"`
	LiquidationPrice *float64 `json:"liquidation_price"`
	TotalFees        float64  `json:"total_fees"`
	InitialMargin    float64  `json:"initial_margin"`
}
