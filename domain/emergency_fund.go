package domain

// Emergency fund states.
const (
	FundCritical = "critical"
	FundBuilding = "building"
	FundFunded   = "funded"
)

type EmergencyFundInput struct {
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	LiquidSavings   float64 `json:"liquidSavings"`
	TargetMonths    float64 `json:"targetMonths,omitempty"`
}

type EmergencyFundStatus struct {
	MonthsCovered float64 `json:"monthsCovered"`
	TargetMonths  float64 `json:"targetMonths"`
	TargetAmount  float64 `json:"targetAmount"`
	Shortfall     float64 `json:"shortfall"`
	Status        string  `json:"status"`
}
