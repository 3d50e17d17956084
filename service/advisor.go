package service

import (
	"fmt"
	"strings"

	"capstack/domain"
)

// Advisor turns calculator output into short plain-language explanations.
// The text is built from templates, so identical results read identically.
type Advisor struct{}

func NewAdvisor() *Advisor {
	return &Advisor{}
}

// ExplainTerm describes why the top recommendation fits the stated preference.
func (a *Advisor) ExplainTerm(
	input domain.TermRecommendationInput,
	top domain.TermRecommendation,
	alternatives []domain.TermRecommendation,
) string {
	var b strings.Builder

	switch input.Preference {
	case domain.PreferMinimizeInterest:
		fmt.Fprintf(&b, "A %d-month term keeps total interest down to $%.2f while the monthly payment stays at $%.2f.",
			top.TermMonths, top.TotalInterest, top.MonthlyPayment)
	case domain.PreferMinimizePayment:
		fmt.Fprintf(&b, "A %d-month term lowers the monthly payment to $%.2f, leaving more room in the monthly budget; total interest comes to $%.2f.",
			top.TermMonths, top.MonthlyPayment, top.TotalInterest)
	default:
		fmt.Fprintf(&b, "A %d-month term balances a $%.2f monthly payment against $%.2f in total interest.",
			top.TermMonths, top.MonthlyPayment, top.TotalInterest)
	}

	if len(alternatives) > 0 {
		b.WriteString(" Close alternatives:")
		for i, alt := range alternatives {
			if i > 0 {
				b.WriteString(";")
			}
			fmt.Fprintf(&b, " %d months at $%.2f/month", alt.TermMonths, alt.MonthlyPayment)
		}
		b.WriteString(".")
	}

	return b.String()
}

// ExplainDebtPlan summarizes a debt exit plan and, when present, the
// snowball/avalanche comparison.
func (a *Advisor) ExplainDebtPlan(result domain.DebtExitResult, debts []domain.Debt) string {
	var b strings.Builder

	name := "snowball"
	how := "pays the smallest balances first, so individual debts disappear quickly"
	if result.Strategy == domain.StrategyAvalanche {
		name = "avalanche"
		how = "pays the highest interest rates first, which minimizes total interest"
	}

	fmt.Fprintf(&b, "The %s strategy %s. Paying off $%.2f across %d debts takes %d months (%.1f years) and costs $%.2f in interest.",
		name, how, result.TotalDebt, len(debts), result.MonthsToPayoff,
		float64(result.MonthsToPayoff)/12.0, result.TotalInterestPaid)

	if c := result.Comparison; c != nil {
		fmt.Fprintf(&b, " Snowball: $%.2f interest over %d months; avalanche: $%.2f over %d months.",
			c.Snowball.TotalInterestPaid, c.Snowball.MonthsToPayoff,
			c.Avalanche.TotalInterestPaid, c.Avalanche.MonthsToPayoff)
		if c.Savings.InterestSaved > 0 {
			fmt.Fprintf(&b, " Avalanche saves $%.2f.", c.Savings.InterestSaved)
		}
	}

	return b.String()
}
