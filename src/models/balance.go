package models

import "github.com/shopspring/decimal"

// BalanceSummary is derived per request from the transactions table,
// never materialized.
type BalanceSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}
