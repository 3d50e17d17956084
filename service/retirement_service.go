package service

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"capstack/domain"
)

type RetirementService struct{}

func NewRetirementService() *RetirementService {
	return &RetirementService{}
}

// Project compounds the current savings and monthly contributions until the
// retirement age and reports the balance at the end of every year.
func (s *RetirementService) Project(
	_ context.Context,
	input domain.RetirementInput,
) (domain.RetirementProjection, error) {

	if err := validateRetirement(input); err != nil {
		return domain.RetirementProjection{}, err
	}

	years := input.RetirementAge - input.CurrentAge
	monthlyRate := (input.AnnualReturnRate / 100) / 12

	balance := input.CurrentSavings
	contributed := decimal.NewFromFloat(input.CurrentSavings)
	monthly := decimal.NewFromFloat(input.MonthlyContribution)
	schedule := make([]domain.RetirementYear, 0, years)

	for year := 1; year <= years; year++ {
		for m := 0; m < 12; m++ {
			// Contributions land at the end of the month, after growth.
			balance = balance*(1+monthlyRate) + input.MonthlyContribution
			contributed = contributed.Add(monthly)
		}
		if math.IsInf(balance, 0) || math.IsNaN(balance) {
			return domain.RetirementProjection{}, domain.OutOfDomain("retirementAge",
				"projected balance overflows by age %d", input.CurrentAge+year)
		}
		schedule = append(schedule, domain.RetirementYear{
			Age:           input.CurrentAge + year,
			Balance:       roundTo2Decimals(balance),
			Contributions: contributed.Round(2).InexactFloat64(),
		})
	}

	projected := decimal.NewFromFloat(balance).Round(2)
	totalContributions := contributed.Round(2)

	return domain.RetirementProjection{
		YearsToRetirement:  years,
		ProjectedBalance:   projected.InexactFloat64(),
		TotalContributions: totalContributions.InexactFloat64(),
		TotalGrowth:        projected.Sub(totalContributions).InexactFloat64(),
		Schedule:           schedule,
	}, nil
}

func validateRetirement(input domain.RetirementInput) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"currentSavings", input.CurrentSavings},
		{"monthlyContribution", input.MonthlyContribution},
		{"annualReturnRate", input.AnnualReturnRate},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return domain.WrongType(f.name, "not a finite number")
		}
	}

	switch {
	case input.CurrentAge < 0 || input.CurrentAge >= MaxRetirementAge:
		return domain.OutOfDomain("currentAge", "must be within [0, %d)", MaxRetirementAge)
	case input.RetirementAge <= input.CurrentAge:
		return domain.OutOfDomain("retirementAge", "must be greater than currentAge")
	case input.RetirementAge > MaxRetirementAge:
		return domain.OutOfDomain("retirementAge", "must not exceed %d", MaxRetirementAge)
	case input.CurrentSavings < 0:
		return domain.OutOfDomain("currentSavings", "must not be negative")
	case input.MonthlyContribution < 0:
		return domain.OutOfDomain("monthlyContribution", "must not be negative")
	case input.AnnualReturnRate <= -100 || input.AnnualReturnRate > MaxAnnualReturnRate:
		return domain.OutOfDomain("annualReturnRate", "must be within (-100, %.0f]", MaxAnnualReturnRate)
	}
	return nil
}
