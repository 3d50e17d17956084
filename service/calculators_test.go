package service

import (
	"context"
	"errors"
	"testing"

	"capstack/domain"
)

func TestRetirementProject_NoGrowth(t *testing.T) {
	svc := NewRetirementService()

	got, err := svc.Project(context.Background(), domain.RetirementInput{
		CurrentAge:          30,
		RetirementAge:       32,
		MonthlyContribution: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.YearsToRetirement != 2 || len(got.Schedule) != 2 {
		t.Fatalf("expected a 2-year schedule, got %+v", got)
	}
	if got.ProjectedBalance != 2400 || got.TotalContributions != 2400 || got.TotalGrowth != 0 {
		t.Errorf("unexpected totals: %+v", got)
	}
	if got.Schedule[0].Age != 31 || got.Schedule[0].Balance != 1200 {
		t.Errorf("first year = %+v", got.Schedule[0])
	}
}

func TestRetirementProject_Compounds(t *testing.T) {
	svc := NewRetirementService()

	got, err := svc.Project(context.Background(), domain.RetirementInput{
		CurrentAge:       40,
		RetirementAge:    41,
		CurrentSavings:   1000,
		AnnualReturnRate: 12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1000 * 1.01^12
	if got.ProjectedBalance != 1126.83 {
		t.Errorf("ProjectedBalance = %.2f, want 1126.83", got.ProjectedBalance)
	}
	if got.TotalGrowth != 126.83 {
		t.Errorf("TotalGrowth = %.2f, want 126.83", got.TotalGrowth)
	}
}

func TestRetirementProject_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.RetirementInput
		wantField string
	}{
		{"retire before now", domain.RetirementInput{CurrentAge: 50, RetirementAge: 40}, "retirementAge"},
		{"negative age", domain.RetirementInput{CurrentAge: -1, RetirementAge: 60}, "currentAge"},
		{"past max age", domain.RetirementInput{CurrentAge: 30, RetirementAge: 150}, "retirementAge"},
		{"negative savings", domain.RetirementInput{CurrentAge: 30, RetirementAge: 60, CurrentSavings: -1}, "currentSavings"},
		{"total loss rate", domain.RetirementInput{CurrentAge: 30, RetirementAge: 60, AnnualReturnRate: -100}, "annualReturnRate"},
		{"return rate above max", domain.RetirementInput{CurrentAge: 0, RetirementAge: 119, CurrentSavings: 1, MonthlyContribution: 1, AnnualReturnRate: 1000}, "annualReturnRate"},
		{"balance overflows", domain.RetirementInput{CurrentAge: 0, RetirementAge: 119, CurrentSavings: 1e300, AnnualReturnRate: 100}, "retirementAge"},
	}

	svc := NewRetirementService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Project(context.Background(), tc.in)
			var invalid *domain.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", invalid.Field, tc.wantField)
			}
		})
	}
}

func TestEmergencyFundStatus(t *testing.T) {
	tests := []struct {
		name          string
		in            domain.EmergencyFundInput
		wantStatus    string
		wantCovered   float64
		wantShortfall float64
	}{
		{"critical", domain.EmergencyFundInput{MonthlyExpenses: 1000, LiquidSavings: 500}, domain.FundCritical, 0.5, 5500},
		{"building", domain.EmergencyFundInput{MonthlyExpenses: 1000, LiquidSavings: 3000}, domain.FundBuilding, 3, 3000},
		{"funded", domain.EmergencyFundInput{MonthlyExpenses: 1000, LiquidSavings: 7000}, domain.FundFunded, 7, 0},
		{"custom target", domain.EmergencyFundInput{MonthlyExpenses: 1000, LiquidSavings: 3000, TargetMonths: 3}, domain.FundFunded, 3, 0},
		{"no expenses", domain.EmergencyFundInput{LiquidSavings: 0}, domain.FundFunded, 6, 0},
	}

	svc := NewEmergencyFundService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Status(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tc.wantStatus)
			}
			if got.MonthsCovered != tc.wantCovered {
				t.Errorf("MonthsCovered = %v, want %v", got.MonthsCovered, tc.wantCovered)
			}
			if got.Shortfall != tc.wantShortfall {
				t.Errorf("Shortfall = %v, want %v", got.Shortfall, tc.wantShortfall)
			}
		})
	}
}

func TestEmergencyFundStatus_RejectsNegative(t *testing.T) {
	_, err := NewEmergencyFundService().Status(context.Background(),
		domain.EmergencyFundInput{MonthlyExpenses: -1, LiquidSavings: 100})

	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) || invalid.Field != "monthlyExpenses" {
		t.Fatalf("expected monthlyExpenses InvalidInputError, got %v", err)
	}
}

func TestEmergencyFundStatus_RejectsOverflow(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.EmergencyFundInput
		wantField string
	}{
		{"target above max", domain.EmergencyFundInput{MonthlyExpenses: 1e300, LiquidSavings: 1, TargetMonths: 1e10}, "targetMonths"},
		{"target amount overflows", domain.EmergencyFundInput{MonthlyExpenses: 1e308, LiquidSavings: 1, TargetMonths: 100}, "monthlyExpenses"},
		{"coverage overflows", domain.EmergencyFundInput{MonthlyExpenses: 1e-300, LiquidSavings: 1e300}, "liquidSavings"},
	}

	svc := NewEmergencyFundService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Status(context.Background(), tc.in)
			var invalid *domain.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Field != tc.wantField || invalid.Reason != domain.ReasonOutOfDomain {
				t.Errorf("got %s/%s, want %s/%s", invalid.Field, invalid.Reason, tc.wantField, domain.ReasonOutOfDomain)
			}
		})
	}
}
