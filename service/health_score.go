package service

import (
	"math"

	"capstack/domain"
)

// Component weights for the health score. They must sum to 1.0.
const (
	weightSavingsRate       = 0.25
	weightEmergencyFund     = 0.20
	weightDebtToIncome      = 0.20
	weightExpenseDiscipline = 0.15
	weightIncomeStability   = 0.10
	weightDiversification   = 0.10
)

// Scaling breakpoints for the sub-score transforms.
const (
	// savings rate at or above this earns full credit
	savingsRateTarget = 0.30
	// months of expenses covered for full credit
	emergencyFundTargetMonths = 6.0
	// debt-to-income at or above this earns nothing; larger ratios are valid input
	debtToIncomeCeiling = 0.50
	// expenses/income at or below the floor earns full credit, at the ceiling nothing
	expenseRatioFloor   = 0.50
	expenseRatioCeiling = 1.00
)

type gradeBand struct {
	min   float64
	grade string
}

// gradeBands is ordered from the highest cut point down.
var gradeBands = []gradeBand{
	{97, "A+"}, {93, "A"}, {90, "A-"},
	{87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"},
	{67, "D+"}, {63, "D"}, {60, "D-"},
}

// ComputeHealthScore maps a financial profile to a composite 0-100 score and
// letter grade. It has no side effects and is safe for concurrent use.
//
//	total = savings*0.25 + emergency*0.20 + debt*0.20
//	      + expenses*0.15 + stability*0.10 + diversification*0.10
func ComputeHealthScore(p domain.FinancialProfile) (domain.ScoreResult, error) {
	if err := validateProfile(p); err != nil {
		return domain.ScoreResult{}, err
	}

	components := map[string]float64{
		domain.ComponentSavingsRate:       clamp01(p.SavingsRate/savingsRateTarget) * 100,
		domain.ComponentEmergencyFund:     clamp01(p.EmergencyFundMonths/emergencyFundTargetMonths) * 100,
		domain.ComponentDebtToIncome:      (1 - clamp01(p.DebtToIncomeRatio/debtToIncomeCeiling)) * 100,
		domain.ComponentExpenseDiscipline: expenseDisciplineScore(p.MonthlyIncome, p.MonthlyExpenses),
		domain.ComponentIncomeStability:   p.IncomeStability * 100,
		domain.ComponentDiversification:   p.InvestmentDiversification * 100,
	}

	total := components[domain.ComponentSavingsRate]*weightSavingsRate +
		components[domain.ComponentEmergencyFund]*weightEmergencyFund +
		components[domain.ComponentDebtToIncome]*weightDebtToIncome +
		components[domain.ComponentExpenseDiscipline]*weightExpenseDiscipline +
		components[domain.ComponentIncomeStability]*weightIncomeStability +
		components[domain.ComponentDiversification]*weightDiversification

	total = math.Max(0, math.Min(100, math.Round(total)))

	for k, v := range components {
		components[k] = math.Round(v*100) / 100
	}

	return domain.ScoreResult{
		TotalScore:      total,
		Grade:           gradeFromScore(total),
		ComponentScores: components,
	}, nil
}

// expenseDisciplineScore scores the share of income consumed by expenses.
func expenseDisciplineScore(income, expenses float64) float64 {
	// Without income the ratio is undefined; treat it as the worst case.
	if income == 0 {
		return 0
	}
	ratio := expenses / income
	return (1 - clamp01((ratio-expenseRatioFloor)/(expenseRatioCeiling-expenseRatioFloor))) * 100
}

func gradeFromScore(score float64) string {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade
		}
	}
	return "F"
}

func validateProfile(p domain.FinancialProfile) error {
	fields := []struct {
		name     string
		value    float64
		fraction bool
	}{
		{"monthlyIncome", p.MonthlyIncome, false},
		{"monthlyExpenses", p.MonthlyExpenses, false},
		{"savingsRate", p.SavingsRate, true},
		{"emergencyFundMonths", p.EmergencyFundMonths, false},
		{"debtToIncomeRatio", p.DebtToIncomeRatio, false},
		{"incomeStability", p.IncomeStability, true},
		{"investmentDiversification", p.InvestmentDiversification, true},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return domain.WrongType(f.name, "not a finite number")
		}
		if f.value < 0 {
			return domain.OutOfDomain(f.name, "must not be negative, got %g", f.value)
		}
		if f.fraction && f.value > 1 {
			return domain.OutOfDomain(f.name, "must be within [0, 1], got %g", f.value)
		}
	}
	return nil
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
