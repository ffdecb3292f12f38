// Package report aggregates stored expenses into category and monthly
// summaries, compares monthly spending with budgets and exports summaries
// as CSV files.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

type (
	// ExpenseLister loads every stored expense.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// BudgetReader looks up the budget of one month. ok is false when none was set.
	BudgetReader interface {
		GetBudget(ctx context.Context, month, year int) (amount float64, ok bool, err error)
	}
)

type monthKey struct {
	year  int
	month int
}

// Service computes reports on top of the data-access layer.
type Service struct {
	expenses   ExpenseLister
	budgets    BudgetReader
	reportsDir string
	logger     *log.Logger
}

// NewService returns a report service; reportsDir is where exports go
// when the caller gives no explicit path.
func NewService(expenses ExpenseLister, budgets BudgetReader, reportsDir string, logger *log.Logger) *Service {
	return &Service{
		expenses:   expenses,
		budgets:    budgets,
		reportsDir: reportsDir,
		logger:     logger.WithComponent(log.ComponentReport),
	}
}

// CategorySummary totals spending per category. Categories are compared
// exactly, so "Food" and "food" are separate groups. Totals are not rounded.
func (s *Service) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	expenses, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	sums := map[string]decimal.Decimal{}
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for cat, sum := range sums {
		out = append(out, core.CategoryTotal{Category: cat, Total: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// MonthlySummary totals spending per calendar month. Expenses whose date
// cannot be parsed are left out.
func (s *Service) MonthlySummary(ctx context.Context) ([]core.MonthTotal, error) {
	expenses, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	sums := map[monthKey]decimal.Decimal{}
	for _, e := range expenses {
		key, ok := s.monthOf(ctx, e)
		if !ok {
			continue
		}
		sums[key] = sums[key].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make([]core.MonthTotal, 0, len(sums))
	for key, sum := range sums {
		out = append(out, core.MonthTotal{Year: key.year, Month: key.month, Total: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// BudgetStatus compares what was spent in the given month with its budget.
func (s *Service) BudgetStatus(ctx context.Context, year, month int) (core.BudgetStatus, error) {
	expenses, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("load expenses: %w", err)
	}

	target := monthKey{year: year, month: month}
	spent := decimal.Zero
	for _, e := range expenses {
		if key, ok := s.monthOf(ctx, e); ok && key == target {
			spent = spent.Add(decimal.NewFromFloat(e.Amount))
		}
	}

	amount, ok, err := s.budgets.GetBudget(ctx, month, year)
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("load budget: %w", err)
	}
	budget := decimal.Zero
	if ok {
		budget = decimal.NewFromFloat(amount)
	}

	percent := decimal.Zero
	if budget.IsPositive() {
		percent = spent.Div(budget).Mul(decimal.NewFromInt(100))
	}
	st := core.BudgetStatus{
		Year:        year,
		Month:       month,
		Spent:       round2(spent),
		Budget:      round2(budget),
		Remaining:   round2(budget.Sub(spent)),
		PercentUsed: round2(percent),
		Status:      core.ClassifyBudget(budget.InexactFloat64(), percent.InexactFloat64()),
	}
	s.logger.DebugContext(ctx, "Budget status computed", append(log.NewFields().
		WithOperation(log.OpBudget).
		WithPeriod(year, month).ToSlice(), log.FieldStatus, st.Status)...)
	return st, nil
}

func (s *Service) monthOf(ctx context.Context, e core.Expense) (monthKey, bool) {
	t, ok := e.ParsedDate()
	if !ok {
		s.logger.DebugContext(ctx, "Skipping expense with unparsable date", log.FieldExpenseID, e.ID, log.FieldDate, e.Date)
		return monthKey{}, false
	}
	return monthKey{year: t.Year(), month: int(t.Month())}, true
}

// round2 is applied to budget status values only.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
