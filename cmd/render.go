package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"capstack/domain"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorDim    = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorYellow = lipgloss.Color("#D0A215")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(22)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// componentOrder fixes the row order of the breakdown; map iteration is random.
var componentOrder = []struct {
	key   string
	label string
}{
	{domain.ComponentSavingsRate, "Savings rate"},
	{domain.ComponentEmergencyFund, "Emergency fund"},
	{domain.ComponentDebtToIncome, "Debt to income"},
	{domain.ComponentExpenseDiscipline, "Expense discipline"},
	{domain.ComponentIncomeStability, "Income stability"},
	{domain.ComponentDiversification, "Diversification"},
}

// gradeColor picks a color by letter: A green, B accent, C yellow, D orange, F red.
func gradeColor(grade string) lipgloss.Color {
	switch {
	case strings.HasPrefix(grade, "A"):
		return colorGreen
	case strings.HasPrefix(grade, "B"):
		return colorAccent
	case strings.HasPrefix(grade, "C"):
		return colorYellow
	case strings.HasPrefix(grade, "D"):
		return colorOrange
	default:
		return colorRed
	}
}

func renderBar(score float64, width int) string {
	pct := score / 100
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))

	color := colorGreen
	switch {
	case score < 40:
		color = colorRed
	case score < 70:
		color = colorOrange
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}

// renderScoreCard formats a score result as a bordered terminal card.
func renderScoreCard(result domain.ScoreResult) string {
	gradeStyle := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(result.Grade))

	var b strings.Builder
	b.WriteString(titleStyle.Render("FINANCIAL HEALTH"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle.Render(fmt.Sprintf("%.0f / 100", result.TotalScore)),
		gradeStyle.Render(result.Grade))

	for i, c := range componentOrder {
		score := result.ComponentScores[c.key]
		fmt.Fprintf(&b, "%s %s %6.2f", labelStyle.Render(c.label), renderBar(score, 20), score)
		if i < len(componentOrder)-1 {
			b.WriteString("\n")
		}
	}

	return cardStyle.Render(b.String())
}
