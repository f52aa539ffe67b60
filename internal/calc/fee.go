package calc

// Fee считает торговую комиссию: quantity * price * feePercent / 100.
// Нулевая позиция или отрицательная ставка дают 0, а не ошибку.
func Fee(quantity, price, feePercent float64) float64 {
	if quantity <= 0 || price <= 0 || feePercent < 0 {
		return 0
	}
	return quantity * price * feePercent / 100
}
