package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"capstack/domain"
)

// ErrNoFeasibleTerm is returned when no term in the requested window keeps
// the monthly payment under the caller's ceiling.
var ErrNoFeasibleTerm = errors.New("no term satisfies the maximum monthly payment")

const maxAlternatives = 3

type TermRecommendationService struct {
	advisor *Advisor
}

func NewTermRecommendationService(advisor *Advisor) *TermRecommendationService {
	return &TermRecommendationService{advisor: advisor}
}

// RecommendTerm evaluates every term in the requested window and ranks the
// affordable ones by the caller's preference.
func (s *TermRecommendationService) RecommendTerm(
	_ context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {

	if err := validateTermInput(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		// Scanning terms is exploratory, so individual scenarios are not persisted.
		result, err := amortize(domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   term,
		})
		if err != nil {
			return domain.TermRecommendationResult{}, err
		}

		if result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: result.MonthlyPayment,
			TotalInterest:  result.TotalInterest,
			Score:          s.calculateScore(result, input, term),
			Reason:         reasonFor(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoFeasibleTerm
	}

	// Highest score first; shorter term wins ties.
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score == recommendations[j].Score {
			return recommendations[i].TermMonths < recommendations[j].TermMonths
		}
		return recommendations[i].Score > recommendations[j].Score
	})

	alternatives := recommendations[1:min(len(recommendations), maxAlternatives+1)]
	recommendations[0].Reason = s.advisor.ExplainTerm(input, recommendations[0], alternatives)

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

func validateTermInput(input domain.TermRecommendationInput) error {
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
	case input.MinTermMonths < MinTermMonths:
		return domain.OutOfDomain("minTermMonths", "must be at least %d", MinTermMonths)
	case input.MaxTermMonths < input.MinTermMonths:
		return domain.OutOfDomain("maxTermMonths", "must not be below minTermMonths")
	case input.MaxTermMonths > MaxTermMonths:
		return domain.OutOfDomain("maxTermMonths", "exceeds the limit of %d months", MaxTermMonths)
	case input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths:
		return domain.OutOfDomain("maxTermMonths", "term window exceeds %d months", MaxTermRangeMonths)
	case math.IsNaN(input.MaxMonthlyPayment) || math.IsInf(input.MaxMonthlyPayment, 0):
		return domain.WrongType("maxMonthlyPayment", "not a finite number")
	case input.MaxMonthlyPayment <= 0:
		return domain.OutOfDomain("maxMonthlyPayment", "must be positive")
	}

	switch input.Preference {
	case domain.PreferMinimizeInterest, domain.PreferMinimizePayment, domain.PreferBalanced:
		return nil
	case "":
		return domain.Missing("preference")
	default:
		return domain.OutOfDomain("preference", "want %s|%s|%s",
			domain.PreferMinimizeInterest, domain.PreferMinimizePayment, domain.PreferBalanced)
	}
}

// calculateScore rates a term 0-10 by blending interest, payment and term
// length sub-scores with preference-specific weights.
func (s *TermRecommendationService) calculateScore(
	result domain.LoanResult,
	input domain.TermRecommendationInput,
	term int,
) float64 {
	maxPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MinTermMonths) / 12
	interestRange := maxPossibleInterest - minPossibleInterest

	floorPayment := input.Amount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - floorPayment

	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-floorPayment)/paymentRange)
	}
	// A single-term window has nothing to compare against.
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case domain.PreferMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	default:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func reasonFor(preference string) string {
	switch preference {
	case domain.PreferMinimizeInterest:
		return "Term optimized to minimize total interest"
	case domain.PreferMinimizePayment:
		return "Term optimized to minimize the monthly payment"
	default:
		return "Balance between monthly payment and total cost"
	}
}
