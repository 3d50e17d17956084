package service

const (
	MaxLoanAmount        = 1_000_000_000.0
	MaxInterestRate      = 1000.0 // annual percent
	MaxTermMonths        = 600    // 50 years
	MinTermMonths        = 1
	MaxDebtAmount        = 100_000_000.0
	MaxDebtsPerRequest   = 50
	MaxDebtPayoffMonths  = 600
	DebtBalanceTolerance = 0.01 // balance at or below this counts as paid

	// widest [min, max] window a term recommendation may scan (10 years)
	MaxTermRangeMonths = 120

	MaxRetirementAge           = 120
	MaxAnnualReturnRate        = 100.0 // annual percent
	DefaultEmergencyFundMonths = 6.0
	MaxEmergencyFundMonths     = 120.0
)
