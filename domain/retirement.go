package domain

type RetirementInput struct {
	CurrentAge          int     `json:"currentAge"`
	RetirementAge       int     `json:"retirementAge"`
	CurrentSavings      float64 `json:"currentSavings"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	AnnualReturnRate    float64 `json:"annualReturnRate"` // percent
}

type RetirementYear struct {
	Age           int     `json:"age"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
}

type RetirementProjection struct {
	YearsToRetirement  int              `json:"yearsToRetirement"`
	ProjectedBalance   float64          `json:"projectedBalance"`
	TotalContributions float64          `json:"totalContributions"`
	TotalGrowth        float64          `json:"totalGrowth"`
	Schedule           []RetirementYear `json:"schedule"`
}
