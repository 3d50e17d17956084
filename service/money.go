package service

import "github.com/shopspring/decimal"

// roundTo2Decimals rounds a currency amount to cents, half away from zero.
func roundTo2Decimals(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// sumMoney adds currency amounts without accumulating float error.
func sumMoney(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}
