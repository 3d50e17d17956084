package service

import (
	"context"
	"math"

	"capstack/domain"
)

type EmergencyFundService struct{}

func NewEmergencyFundService() *EmergencyFundService {
	return &EmergencyFundService{}
}

// Status reports how many months of expenses the liquid savings cover and
// how far they are from the target.
func (s *EmergencyFundService) Status(
	_ context.Context,
	input domain.EmergencyFundInput,
) (domain.EmergencyFundStatus, error) {

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"monthlyExpenses", input.MonthlyExpenses},
		{"liquidSavings", input.LiquidSavings},
		{"targetMonths", input.TargetMonths},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return domain.EmergencyFundStatus{}, domain.WrongType(f.name, "not a finite number")
		}
		if f.value < 0 {
			return domain.EmergencyFundStatus{}, domain.OutOfDomain(f.name, "must not be negative")
		}
	}

	if input.TargetMonths > MaxEmergencyFundMonths {
		return domain.EmergencyFundStatus{}, domain.OutOfDomain("targetMonths",
			"must not exceed %.0f", MaxEmergencyFundMonths)
	}

	target := input.TargetMonths
	if target == 0 {
		target = DefaultEmergencyFundMonths
	}

	// Nothing to cover: any savings, including none, fully fund the target.
	if input.MonthlyExpenses == 0 {
		return domain.EmergencyFundStatus{
			MonthsCovered: target,
			TargetMonths:  target,
			Status:        domain.FundFunded,
		}, nil
	}

	covered := input.LiquidSavings / input.MonthlyExpenses
	if math.IsInf(covered*100, 0) {
		return domain.EmergencyFundStatus{}, domain.OutOfDomain("liquidSavings",
			"covers more months than can be represented")
	}
	targetAmount := input.MonthlyExpenses * target
	if math.IsInf(targetAmount, 0) {
		return domain.EmergencyFundStatus{}, domain.OutOfDomain("monthlyExpenses",
			"target amount overflows")
	}

	status := domain.FundBuilding
	switch {
	case covered >= target:
		status = domain.FundFunded
	case covered < 1:
		status = domain.FundCritical
	}

	return domain.EmergencyFundStatus{
		MonthsCovered: math.Round(covered*100) / 100,
		TargetMonths:  target,
		TargetAmount:  roundTo2Decimals(targetAmount),
		Shortfall:     roundTo2Decimals(math.Max(0, targetAmount-input.LiquidSavings)),
		Status:        status,
	}, nil
}
