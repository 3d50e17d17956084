package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"capstack/domain"
)

type DebtExitService struct {
	advisor *Advisor
}

func NewDebtExitService(advisor *Advisor) *DebtExitService {
	return &DebtExitService{advisor: advisor}
}

// CalculateDebtExitPlan simulates paying off the debts month by month with
// the snowball or avalanche ordering. "compare" runs both and returns the
// cheaper plan together with the comparison.
func (s *DebtExitService) CalculateDebtExitPlan(
	_ context.Context,
	input domain.DebtExitInput,
) (domain.DebtExitResult, error) {

	if err := validateDebtInput(input); err != nil {
		return domain.DebtExitResult{}, err
	}

	var result domain.DebtExitResult

	if input.Strategy == domain.StrategyCompare {
		snowball := s.calculateStrategy(input, domain.StrategySnowball)
		avalanche := s.calculateStrategy(input, domain.StrategyAvalanche)

		if avalanche.TotalInterestPaid < snowball.TotalInterestPaid {
			result = avalanche
		} else {
			result = snowball
		}

		result.Comparison = &domain.Comparison{
			Snowball: domain.StrategyResult{
				TotalInterestPaid: snowball.TotalInterestPaid,
				MonthsToPayoff:    snowball.MonthsToPayoff,
			},
			Avalanche: domain.StrategyResult{
				TotalInterestPaid: avalanche.TotalInterestPaid,
				MonthsToPayoff:    avalanche.MonthsToPayoff,
			},
			Savings: domain.Savings{
				InterestSaved: roundTo2Decimals(math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid)),
				MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
			},
		}
	} else {
		result = s.calculateStrategy(input, input.Strategy)
	}

	result.Explanation = s.advisor.ExplainDebtPlan(result, input.Debts)

	return result, nil
}

func validateDebtInput(input domain.DebtExitInput) error {
	if len(input.Debts) == 0 {
		return domain.Missing("debts")
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return domain.OutOfDomain("debts", "at most %d debts per request", MaxDebtsPerRequest)
	}
	if math.IsNaN(input.AvailableMonthlyPayment) || math.IsInf(input.AvailableMonthlyPayment, 0) {
		return domain.WrongType("availableMonthlyPayment", "not a finite number")
	}
	if input.AvailableMonthlyPayment <= 0 {
		return domain.OutOfDomain("availableMonthlyPayment", "must be positive")
	}

	switch input.Strategy {
	case domain.StrategySnowball, domain.StrategyAvalanche, domain.StrategyCompare:
	case "":
		return domain.Missing("strategy")
	default:
		return domain.OutOfDomain("strategy", "want %s|%s|%s",
			domain.StrategySnowball, domain.StrategyAvalanche, domain.StrategyCompare)
	}

	names := make(map[string]bool, len(input.Debts))
	totalMinimumPayments := 0.0
	for i, debt := range input.Debts {
		field := func(name string) string { return fmt.Sprintf("debts[%d].%s", i, name) }

		if debt.Name == "" {
			return domain.Missing(field("name"))
		}
		if names[debt.Name] {
			return domain.OutOfDomain(field("name"), "duplicate debt name %q", debt.Name)
		}
		names[debt.Name] = true

		for _, f := range []struct {
			name  string
			value float64
		}{
			{"amount", debt.Amount},
			{"interestRate", debt.InterestRate},
			{"minimumPayment", debt.MinimumPayment},
		} {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return domain.WrongType(field(f.name), "not a finite number")
			}
		}

		switch {
		case debt.Amount <= 0:
			return domain.OutOfDomain(field("amount"), "must be positive")
		case debt.Amount > MaxDebtAmount:
			return domain.OutOfDomain(field("amount"), "exceeds the maximum of %.2f", MaxDebtAmount)
		case debt.InterestRate < 0:
			return domain.OutOfDomain(field("interestRate"), "must not be negative")
		case debt.InterestRate > MaxInterestRate:
			return domain.OutOfDomain(field("interestRate"), "exceeds the maximum of %.2f%%", MaxInterestRate)
		case debt.MinimumPayment <= 0:
			return domain.OutOfDomain(field("minimumPayment"), "must be positive")
		}

		// A minimum payment below the monthly interest never retires the debt.
		monthlyInterest := debt.Amount * (debt.InterestRate / 100) / 12
		if debt.MinimumPayment < monthlyInterest {
			return domain.OutOfDomain(field("minimumPayment"),
				"%.2f does not cover monthly interest of %.2f", debt.MinimumPayment, monthlyInterest)
		}
		totalMinimumPayments += debt.MinimumPayment
	}

	if totalMinimumPayments > input.AvailableMonthlyPayment {
		return domain.OutOfDomain("availableMonthlyPayment",
			"%.2f does not cover minimum payments of %.2f", input.AvailableMonthlyPayment, totalMinimumPayments)
	}
	return nil
}

func (s *DebtExitService) calculateStrategy(
	input domain.DebtExitInput,
	strategy string,
) domain.DebtExitResult {

	debts := make([]domain.Debt, len(input.Debts))
	copy(debts, input.Debts)

	if strategy == domain.StrategySnowball {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].Amount < debts[j].Amount
		})
	} else {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].InterestRate > debts[j].InterestRate
		})
	}

	balances := make(map[string]float64, len(debts))
	for _, debt := range debts {
		balances[debt.Name] = debt.Amount
	}

	monthlyPlan := []domain.MonthlyPlan{}
	totalInterestPaid := 0.0
	month := 0

	for {
		month++
		available := input.AvailableMonthlyPayment
		payments := []domain.MonthlyPayment{}
		totalPaid := 0.0

		// Interest accrues on the opening balance of every active debt.
		interest := make(map[string]float64, len(debts))
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}
			monthlyRate := (debt.InterestRate / 100) / 12
			interest[debt.Name] = balances[debt.Name] * monthlyRate
			totalInterestPaid += interest[debt.Name]
		}

		// Minimums first, never more than what closes the debt or what is left.
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}

			owed := interest[debt.Name]
			payment := math.Max(debt.MinimumPayment, owed)
			payment = math.Min(payment, balances[debt.Name]+owed)
			payment = math.Min(payment, available)

			if payment <= 0 {
				continue
			}

			principal := math.Max(0, payment-owed)
			balances[debt.Name] = math.Max(0, balances[debt.Name]-principal)

			payments = append(payments, domain.MonthlyPayment{
				DebtName:         debt.Name,
				Payment:          roundTo2Decimals(payment),
				RemainingBalance: roundTo2Decimals(balances[debt.Name]),
			})

			available -= payment
			totalPaid += payment
		}

		// The surplus goes to the first active debt in strategy order.
		if available > 0 {
			for _, debt := range debts {
				if balances[debt.Name] <= 0 {
					continue
				}
				extra := math.Min(available, balances[debt.Name])
				for i := range payments {
					if payments[i].DebtName != debt.Name {
						continue
					}
					balances[debt.Name] = math.Max(0, balances[debt.Name]-extra)
					payments[i].Payment = roundTo2Decimals(payments[i].Payment + extra)
					payments[i].RemainingBalance = roundTo2Decimals(balances[debt.Name])
					totalPaid += extra
					available -= extra
					break
				}
				break
			}
		}

		monthlyPlan = append(monthlyPlan, domain.MonthlyPlan{
			Month:     month,
			Payments:  payments,
			TotalPaid: roundTo2Decimals(totalPaid),
		})

		allPaid := true
		for _, debt := range debts {
			if balances[debt.Name] > DebtBalanceTolerance {
				allPaid = false
				break
			}
		}
		if allPaid {
			break
		}

		if month >= MaxDebtPayoffMonths {
			slog.Warn("debt exit: payoff simulation hit the month limit",
				"strategy", strategy, "months", MaxDebtPayoffMonths)
			break
		}
	}

	totalDebt := make([]float64, 0, len(input.Debts))
	for _, debt := range input.Debts {
		totalDebt = append(totalDebt, debt.Amount)
	}

	return domain.DebtExitResult{
		Strategy:          strategy,
		TotalDebt:         sumMoney(totalDebt...),
		TotalInterestPaid: roundTo2Decimals(totalInterestPaid),
		MonthsToPayoff:    month,
		MonthlyPlan:       monthlyPlan,
	}
}
