package models

// UserSettings хранит данные пользователя бота
type UserSettings struct {
	ID int64 `json:"id"`

	UserID int64 `json:"user_id"` // Telegram chat/user ID

	Name     string             `json:"name"`
	Step     string             `json:"step"`
	Settings CalculatorSettings `json:"settings"`
}

// CalculatorSettings — последние параметры обоих калькуляторов.
type CalculatorSettings struct {
	Strategy StrategyParameters      `json:"strategy"`
	Standard StandardTradeParameters `json:"standard"`
	Preset   string                  `json:"preset,omitempty"`

	// Полная таблица шагов вместо компактной
	FullTable bool `json:"full_table"`
}

// NewUserSettings — настройки нового пользователя из дефолтов сервиса.
// Калькулятор сделки стартует с той же цены, выход на 1% в сторону позиции.
func NewUserSettings(userID int64, defaults StrategyParameters) *UserSettings {
	return &UserSettings{
		UserID: userID,
		Settings: CalculatorSettings{
			Strategy: defaults,
			Standard: StandardTradeParameters{
				Direction:             defaults.Direction,
				EntryPrice:            defaults.InitialPrice,
				ExitPrice:             defaults.InitialPrice * (1 + defaults.Direction.Sign()/100),
				Quantity:              1,
				Leverage:              defaults.Leverage,
				TakerFeeRate:          defaults.TakerFee / 100,
				MaintenanceMarginRate: defaults.MaintenanceMarginRate / 100,
			},
		},
	}
}

// ApplyPreset применяет пресет и запоминает его имя.
func (u *UserSettings) ApplyPreset(key string) bool {
	p, ok := Presets[key]
	if !ok {
		return false
	}
	p.Apply(&u.Settings.Strategy)
	u.Settings.Preset = key
	return true
}
