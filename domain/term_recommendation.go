package domain

// Term preferences accepted by TermRecommendationInput.Preference.
const (
	PreferMinimizeInterest = "minimize_interest"
	PreferMinimizePayment  = "minimize_payment"
	PreferBalanced         = "balanced"
)

type TermRecommendationInput struct {
	Amount            float64 `json:"amount"`
	InterestRate      float64 `json:"interestRate"`
	MinTermMonths     int     `json:"minTermMonths"`
	MaxTermMonths     int     `json:"maxTermMonths"`
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment"`
	Preference        string  `json:"preference"`
}

type TermRecommendation struct {
	TermMonths     int     `json:"termMonths"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
