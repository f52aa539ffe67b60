package models

import "time"

type CalculationKind string

const (
	KindMartingale CalculationKind = "martingale"
	KindStandard   CalculationKind = "standard"
)

// StandardRecord — параметры и результат одной сделки.
type StandardRecord struct {
	Params StandardTradeParameters `json:"params"`
	Result StandardTradeResult     `json:"result"`
}

// Calculation — запись истории расчётов пользователя.
// Заполнено ровно одно из Martingale / Standard.
type Calculation struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Kind      CalculationKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`

	Martingale *MartingaleResult `json:"martingale,omitempty"`
	Standard   *StandardRecord   `json:"standard,omitempty"`
}
