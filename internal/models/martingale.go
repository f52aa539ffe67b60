package models

// Direction — направление позиции на весь прогон.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Sign: +1 для лонга, -1 для шорта.
func (d Direction) Sign() float64 {
	if d == DirectionShort {
		return -1
	}
	return 1
}

// StrategyParameters — входные параметры мартингейла (один набор на прогон).
// Все проценты в процентных единицах: 0.05 => 0.05%.
type StrategyParameters struct {
	Direction             Direction `json:"direction" yaml:"direction"`
	InitialPrice          float64   `json:"initial_price" yaml:"initial_price"`
	AddDiffPercent        float64   `json:"add_diff_percent" yaml:"add_diff_percent"`
	TpPercent             float64   `json:"tp_percent" yaml:"tp_percent"`
	InitialMargin         float64   `json:"initial_margin" yaml:"initial_margin"`
	AddMarginBase         float64   `json:"add_margin_base" yaml:"add_margin_base"`
	MaxAdds               int       `json:"max_adds" yaml:"max_adds"`
	Leverage              float64   `json:"leverage" yaml:"leverage"`
	TakerFee              float64   `json:"taker_fee" yaml:"taker_fee"`
	MakerFee              float64   `json:"maker_fee" yaml:"maker_fee"`
	MaintenanceMarginRate float64   `json:"maintenance_margin_rate" yaml:"maintenance_margin_rate"`
	FundingRate           float64   `json:"funding_rate" yaml:"funding_rate"`
	FundingSettlements    int       `json:"funding_settlements" yaml:"funding_settlements"`
	AmountMultiplier      float64   `json:"amount_multiplier" yaml:"amount_multiplier"`
	DiffMultiplier        float64   `json:"diff_multiplier" yaml:"diff_multiplier"`
}

// StepRecord — одна строка таблицы: вход (step 0) или доливка.
type StepRecord struct {
	Step                   int     `json:"step"`
	AddPrice               float64 `json:"add_price"`
	AddQuantity            float64 `json:"add_quantity"`
	AddMargin              float64 `json:"add_margin"`
	OpeningFee             float64 `json:"opening_fee"`
	AccumulatedOpeningFees float64 `json:"accumulated_opening_fees"`
	StepFundingCost        float64 `json:"step_funding_cost"`
	UnrealizedPnl          float64 `json:"unrealized_pnl"`
	AvgPrice               float64 `json:"avg_price"`
	TpPrice                float64 `json:"tp_price"`
	TpProfit               float64 `json:"tp_profit"`
	PercentToTp            float64 `json:"percent_to_tp"`
	CumulativeDiffPercent  float64 `json:"cumulative_diff_percent"`

	// позиция после шага
	TotalMargin   float64 `json:"total_margin"`
	TotalQuantity float64 `json:"total_quantity"`
}

// PositionState — накопитель, который протаскивается через цикл доливок.
type PositionState struct {
	TotalMargin            float64 `json:"total_margin"`
	TotalQuantity          float64 `json:"total_quantity"`
	AvgPrice               float64 `json:"avg_price"`
	AccumulatedOpeningFees float64 `json:"accumulated_opening_fees"`
}

// SummaryResult — итог по всем принятым шагам.
// nil в указателях означает "не применимо".
type SummaryResult struct {
	FinalAvgPrice             float64  `json:"final_avg_price"`
	TotalMargin               float64  `json:"total_margin"`
	FinalUnrealizedPnl        float64  `json:"final_unrealized_pnl"`
	EstimatedLiqPrice         *float64 `json:"estimated_liq_price"`
	PriceDiffPercentValue     *float64 `json:"price_diff_percent"`
	LiqDiffPercentValue       *float64 `json:"liq_diff_percent"`
	TotalEstimatedFundingCost float64  `json:"total_estimated_funding_cost"`
	FinalTpProfit             float64  `json:"final_tp_profit"`
	HasTrades                 bool     `json:"has_trades"`
	HasAdds                   bool     `json:"has_adds"`
}

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
)

// Termination — почему цикл доливок остановился раньше maxAdds.
type Termination struct {
	Step     int     `json:"step"`
	AddPrice float64 `json:"add_price"`
	Reason   string  `json:"reason"`
}

// MartingaleResult — полный результат прогона.
type MartingaleResult struct {
	Params           StrategyParameters `json:"params"`
	Steps            []StepRecord       `json:"steps"`
	Final            PositionState      `json:"final"`
	PriceOfLastTrade float64            `json:"price_of_last_trade"`
	Summary          SummaryResult      `json:"summary"`
	Status           RunStatus          `json:"status"`
	Termination      *Termination       `json:"termination,omitempty"`
}

func (r *MartingaleResult) Aborted() bool { return r.Status == RunAborted }
