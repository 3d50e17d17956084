package service

import (
	"context"
	"log/slog"
	"math"

	"capstack/domain"
	"capstack/repository"
)

type LoanService struct {
	repo repository.LoanRepository
}

// NewLoanService creates a new LoanService with the given repository.
func NewLoanService(repo repository.LoanRepository) *LoanService {
	return &LoanService{repo: repo}
}

// CalculateLoan returns the amortized monthly payment and totals for input
// and records the calculation.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {

	result, err := amortize(input)
	if err != nil {
		return domain.LoanResult{}, err
	}

	// Saving is best-effort; the caller still gets the figures.
	if err := s.repo.Save(ctx, input, result); err != nil {
		slog.Warn("loan: failed to save calculation", "err", err)
	}

	return result, nil
}

// amortize validates input and computes the loan figures without side effects.
func amortize(input domain.LoanInput) (domain.LoanResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.LoanResult{}, err
	}

	var payment float64

	if input.InterestRate == 0 {
		payment = input.Amount / float64(input.TermMonths)
	} else {
		monthlyRate := (input.InterestRate / 100) / 12
		n := float64(input.TermMonths)

		payment = input.Amount * (monthlyRate /
			(1 - math.Pow(1+monthlyRate, -n)))
	}

	total := payment * float64(input.TermMonths)
	interest := total - input.Amount

	return domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(interest),
	}, nil
}

func validateLoan(input domain.LoanInput) error {
	switch {
	case math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0):
		return domain.WrongType("amount", "not a finite number")
	case input.Amount <= 0:
		return domain.OutOfDomain("amount", "must be positive")
	case input.Amount > MaxLoanAmount:
		return domain.OutOfDomain("amount", "exceeds the maximum of %.2f", MaxLoanAmount)
	case math.IsNaN(input.InterestRate) || math.IsInf(input.InterestRate, 0):
		return domain.WrongType("interestRate", "not a finite number")
	case input.InterestRate < 0:
		return domain.OutOfDomain("interestRate", "must not be negative")
	case input.InterestRate > MaxInterestRate:
		return domain.OutOfDomain("interestRate", "exceeds the maximum of %.2f%%", MaxInterestRate)
	case input.TermMonths < MinTermMonths:
		return domain.OutOfDomain("termMonths", "must be at least %d", MinTermMonths)
	case input.TermMonths > MaxTermMonths:
		return domain.OutOfDomain("termMonths", "exceeds the maximum of %d months", MaxTermMonths)
	}
	return nil
}
