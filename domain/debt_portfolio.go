package domain

// Debt exit strategies.
const (
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
	StrategyCompare   = "compare"
)

type Debt struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interestRate"`
	MinimumPayment float64 `json:"minimumPayment"`
}

type DebtExitInput struct {
	Debts                   []Debt  `json:"debts"`
	AvailableMonthlyPayment float64 `json:"availableMonthlyPayment"`
	Strategy                string  `json:"strategy"`
}

type MonthlyPayment struct {
	DebtName         string  `json:"debtName"`
	Payment          float64 `json:"payment"`
	RemainingBalance float64 `json:"remainingBalance"`
}

type MonthlyPlan struct {
	Month     int              `json:"month"`
	Payments  []MonthlyPayment `json:"payments"`
	TotalPaid float64          `json:"totalPaid"`
}

type StrategyResult struct {
	TotalInterestPaid float64 `json:"totalInterestPaid"`
	MonthsToPayoff    int     `json:"monthsToPayoff"`
}

type Savings struct {
	InterestSaved float64 `json:"interestSaved"`
	MonthsSaved   int     `json:"monthsSaved"`
}

type Comparison struct {
	Snowball  StrategyResult `json:"snowball"`
	Avalanche StrategyResult `json:"avalanche"`
	Savings   Savings        `json:"savings"`
}

type DebtExitResult struct {
	Strategy          string        `json:"strategy"`
	TotalDebt         float64       `json:"totalDebt"`
	TotalInterestPaid float64       `json:"totalInterestPaid"`
	MonthsToPayoff    int           `json:"monthsToPayoff"`
	MonthlyPlan       []MonthlyPlan `json:"monthlyPlan"`
	Comparison        *Comparison   `json:"comparison,omitempty"`
	Explanation       string        `json:"explanation,omitempty"`
}
