package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"capstack/domain"
	"capstack/service"
)

var (
	flagIncome          float64
	flagExpenses        float64
	flagSavingsRate     float64
	flagEmergencyMonths float64
	flagDebtRatio       float64
	flagStability       float64
	flagDiversification float64
	flagJSON            bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a financial health score from the command line",
	Example: `  capstack score --income 10000 --expenses 4000 --savings-rate 0.6 \
    --emergency-months 12 --debt-ratio 0.1 --stability 0.9 --diversification 0.8`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Float64Var(&flagIncome, "income", 0, "Monthly income")
	f.Float64Var(&flagExpenses, "expenses", 0, "Monthly expenses")
	f.Float64Var(&flagSavingsRate, "savings-rate", 0, "Share of income saved, 0 to 1")
	f.Float64Var(&flagEmergencyMonths, "emergency-months", 0, "Months of expenses held in reserve")
	f.Float64Var(&flagDebtRatio, "debt-ratio", 0, "Debt payments divided by income")
	f.Float64Var(&flagStability, "stability", 0, "Income stability, 0 to 1")
	f.Float64Var(&flagDiversification, "diversification", 0, "Investment diversification, 0 to 1")
	f.BoolVar(&flagJSON, "json", false, "Print the result as JSON")

	for _, name := range []string{
		"income", "expenses", "savings-rate", "emergency-months",
		"debt-ratio", "stability", "diversification",
	} {
		_ = scoreCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	result, err := service.ComputeHealthScore(domain.FinancialProfile{
		MonthlyIncome:             flagIncome,
		MonthlyExpenses:           flagExpenses,
		SavingsRate:               flagSavingsRate,
		EmergencyFundMonths:       flagEmergencyMonths,
		DebtToIncomeRatio:         flagDebtRatio,
		IncomeStability:           flagStability,
		InvestmentDiversification: flagDiversification,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, renderScoreCard(result))
	return nil
}
