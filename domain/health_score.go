package domain

import "time"

type FinancialProfile struct {
	MonthlyIncome             float64 `json:"monthlyIncome"`
	MonthlyExpenses           float64 `json:"monthlyExpenses"`
	SavingsRate               float64 `json:"savingsRate"`
	EmergencyFundMonths       float64 `json:"emergencyFundMonths"`
	DebtToIncomeRatio         float64 `json:"debtToIncomeRatio"`
	IncomeStability           float64 `json:"incomeStability"`
	InvestmentDiversification float64 `json:"investmentDiversification"`
}

// Component keys used in ScoreResult.ComponentScores.
const (
	ComponentSavingsRate       = "savingsRate"
	ComponentEmergencyFund     = "emergencyFund"
	ComponentDebtToIncome      = "debtToIncome"
	ComponentExpenseDiscipline = "expenseDiscipline"
	ComponentIncomeStability   = "incomeStability"
	ComponentDiversification   = "investmentDiversification"
)

type ScoreResult struct {
	TotalScore      float64            `json:"totalScore"`
	Grade           string             `json:"grade"`
	ComponentScores map[string]float64 `json:"componentScores,omitempty"`
}

// ScoreRecord is a persisted health score evaluation.
type ScoreRecord struct {
	ID        string           `json:"id"`
	Profile   FinancialProfile `json:"profile"`
	Result    ScoreResult      `json:"result"`
	CreatedAt time.Time        `json:"createdAt"`
}
