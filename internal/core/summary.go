package core

// Budget status labels, in evaluation order.
const (
	StatusNoBudgetSet = "NO_BUDGET_SET"
	StatusOver100     = "OVER_100"
	StatusWarning80   = "WARNING_80"
	StatusOK          = "OK"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// MonthTotal is the amount spent in one calendar month.
type MonthTotal struct {
	Year  int
	Month int // 1-12
	Total float64
}

// BudgetStatus compares spending against the budget of one month.
// Monetary fields are rounded to two decimals.
type BudgetStatus struct {
	Year        int
	Month       int
	Spent       float64
	Budget      float64
	Remaining   float64
	PercentUsed float64
	Status      string
}

// ClassifyBudget picks the status label for a budget and its usage.
// A zero budget means none was set, since a stored budget is always positive.
func ClassifyBudget(budget, percentUsed float64) string {
	switch {
	case budget == 0:
		return StatusNoBudgetSet
	case percentUsed >= 100:
		return StatusOver100
	case percentUsed >= 80:
		return StatusWarning80
	default:
		return StatusOK
	}
}
