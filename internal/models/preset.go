package models

// Preset — готовая лестница доливок. Цена, направление и комиссии
// пользователя не трогаются, меняется только форма лестницы.
type Preset struct {
	Name        string
	Description string
	Apply       func(p *StrategyParameters)
}

// PresetOrder — порядок кнопок в меню.
var PresetOrder = []string{"safe", "mid", "aggr"}

var Presets = map[string]Preset{
	"safe": {
		Name:        "🟢 Консервативный",
		Description: "Редкие доливки, мягкий рост объёма, низкое плечо",
		Apply: func(p *StrategyParameters) {
			p.AddDiffPercent = 3
			p.DiffMultiplier = 1.3
			p.AmountMultiplier = 1.2
			p.MaxAdds = 5
			p.Leverage = 5
			p.TpPercent = 1.5
		},
	},
	"mid": {
		Name:        "🟡 Средний",
		Description: "Баланс глубины лестницы и скорости выхода в профит",
		Apply: func(p *StrategyParameters) {
			p.AddDiffPercent = 2
			p.DiffMultiplier = 1.2
			p.AmountMultiplier = 1.5
			p.MaxAdds = 7
			p.Leverage = 10
			p.TpPercent = 1.2
		},
	},
	"aggr": {
		Name:        "🔴 Агрессивный",
		Description: "Частые доливки с удвоением, высокое плечо. Ликвидация близко",
		Apply: func(p *StrategyParameters) {
			p.AddDiffPercent = 1
			p.DiffMultiplier = 1.1
			p.AmountMultiplier = 2
			p.MaxAdds = 9
			p.Leverage = 20
			p.TpPercent = 1
		},
	},
}
