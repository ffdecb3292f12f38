package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
	"expense-tracker/internal/report"
)

var (
	idPrompt     = prompt{label: "Expense id: "}
	periodPrompt = []prompt{
		{label: "Enter year (e.g. 2025): "},
		{label: "Enter month (1-12): "},
	}
)

func say(format string, args ...any) outcome {
	return outcome{text: fmt.Sprintf(format, args...)}
}

func (s *Shell) addExpense() *step {
	return &step{
		prompts: []prompt{
			{label: "Category (e.g. Food, Rent, Transport): "},
			{label: "Amount: "},
			{label: "Date (YYYY-MM-DD): "},
			{label: "Description (optional): "},
		},
		run: func(ctx context.Context, a []string) (outcome, error) {
			e, err := core.NewExpense(a[0], a[1], a[2], a[3])
			if err != nil {
				return outcome{}, err
			}

			id, err := s.store.AddExpense(ctx, e)
			if err != nil {
				return outcome{}, err
			}

			s.logger.InfoContext(ctx, "Expense added", log.NewFields().
				WithOperation(log.OpCreate).
				WithExpense(id, e.Category, e.Amount, e.Date).ToSlice()...)
			return say("Expense saved with id %d.\n", id), nil
		},
	}
}

func (s *Shell) viewAll() *step {
	return &step{
		run: func(ctx context.Context, _ []string) (outcome, error) {
			expenses, err := s.store.ListExpenses(ctx)
			if err != nil {
				return outcome{}, err
			}
			return outcome{text: expenseTable(expenses)}, nil
		},
	}
}

func (s *Shell) searchByCategory() *step {
	return &step{
		prompts: []prompt{{label: "Enter category: "}},
		run: func(ctx context.Context, a []string) (outcome, error) {
			expenses, err := s.store.ListExpensesByCategory(ctx, a[0])
			if err != nil {
				return outcome{}, err
			}
			return outcome{text: fmt.Sprintf("Results for category: %s\n", a[0]) + expenseTable(expenses)}, nil
		},
	}
}

// updateExpense looks the expense up first, then asks for every field with
// the current value as default.
func (s *Shell) updateExpense() *step {
	return &step{
		prompts: []prompt{idPrompt},
		run: func(ctx context.Context, a []string) (outcome, error) {
			id, err := core.ValidateID(a[0])
			if err != nil {
				return outcome{}, err
			}

			current, found, err := s.store.GetExpense(ctx, id)
			if err != nil {
				return outcome{}, err
			}
			if !found {
				return say("No expense with id %d.\n", id), nil
			}
			return outcome{next: s.editExpense(id, current)}, nil
		},
	}
}

func (s *Shell) editExpense(id int64, current core.Expense) *step {
	return &step{
		prompts: []prompt{
			withDefault("Category", current.Category),
			withDefault("Amount", strconv.FormatFloat(current.Amount, 'f', -1, 64)),
			withDefault("Date (YYYY-MM-DD)", current.Date),
			withDefault("Description", current.Description),
		},
		run: func(ctx context.Context, a []string) (outcome, error) {
			e, err := core.NewExpense(a[0], a[1], a[2], a[3])
			if err != nil {
				return outcome{}, err
			}

			ok, err := s.store.UpdateExpense(ctx, id, e)
			if err != nil {
				return outcome{}, err
			}
			if !ok {
				return say("No expense with id %d.\n", id), nil
			}

			s.logger.InfoContext(ctx, "Expense updated", log.NewFields().
				WithOperation(log.OpUpdate).
				WithExpense(id, e.Category, e.Amount, e.Date).ToSlice()...)
			return say("Expense %d updated.\n", id), nil
		},
	}
}

func (s *Shell) deleteExpense() *step {
	return &step{
		prompts: []prompt{idPrompt},
		run: func(ctx context.Context, a []string) (outcome, error) {
			id, err := core.ValidateID(a[0])
			if err != nil {
				return outcome{}, err
			}

			ok, err := s.store.DeleteExpense(ctx, id)
			if err != nil {
				return outcome{}, err
			}
			if !ok {
				return say("No expense with id %d.\n", id), nil
			}

			s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
			return say("Expense %d deleted.\n", id), nil
		},
	}
}

func (s *Shell) totalSpent() *step {
	return &step{
		run: func(ctx context.Context, _ []string) (outcome, error) {
			total, err := s.store.TotalSpent(ctx)
			if err != nil {
				return outcome{}, err
			}
			return say("\nTotal spent on all expenses: %.2f\n", total), nil
		},
	}
}

// monthlyOverview prints the total of one month and its category breakdown.
func (s *Shell) monthlyOverview() *step {
	return &step{
		prompts: periodPrompt,
		run: func(ctx context.Context, a []string) (outcome, error) {
			year, month, err := core.ParsePeriod(a[0], a[1])
			if err != nil {
				return outcome{}, err
			}

			total, err := s.store.MonthlyTotal(ctx, year, month)
			if err != nil {
				return outcome{}, err
			}
			if total == 0 {
				return say("No expenses found for %s.\n", core.Period(year, month)), nil
			}

			byCategory, err := s.store.MonthlyCategoryTotals(ctx, year, month)
			if err != nil {
				return outcome{}, err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "\nTotal spent in %s: %.2f\n", core.Period(year, month), total)
			if len(byCategory) == 0 {
				b.WriteString("No category breakdown available.\n")
			} else {
				b.WriteString("\nBy category:\n")
				b.WriteString(categoryTable(byCategory))
			}
			return outcome{text: b.String()}, nil
		},
	}
}

func (s *Shell) setBudget() *step {
	return &step{
		prompts: append(append([]prompt(nil), periodPrompt...), prompt{label: "Budget amount: "}),
		run: func(ctx context.Context, a []string) (outcome, error) {
			year, month, err := core.ParsePeriod(a[0], a[1])
			if err != nil {
				return outcome{}, err
			}

			b, err := core.NewBudget(month, year, a[2])
			if err != nil {
				return outcome{}, err
			}
			if err := s.store.SetBudget(ctx, b); err != nil {
				return outcome{}, err
			}
			return say("Budget for %s set to %.2f.\n", core.Period(year, month), b.Amount), nil
		},
	}
}

func (s *Shell) budgetStatus() *step {
	return &step{
		prompts: periodPrompt,
		run: func(ctx context.Context, a []string) (outcome, error) {
			year, month, err := core.ParsePeriod(a[0], a[1])
			if err != nil {
				return outcome{}, err
			}

			st, err := s.reports.BudgetStatus(ctx, year, month)
			if err != nil {
				return outcome{}, err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "\nPeriod:       %s\n", core.Period(st.Year, st.Month))
			fmt.Fprintf(&b, "Spent:        %.2f\n", st.Spent)
			if st.Status == core.StatusNoBudgetSet {
				b.WriteString("No budget set for this month.\n")
				return outcome{text: b.String()}, nil
			}
			fmt.Fprintf(&b, "Budget:       %.2f\n", st.Budget)
			fmt.Fprintf(&b, "Remaining:    %.2f\n", st.Remaining)
			fmt.Fprintf(&b, "Used:         %.2f%%\n", st.PercentUsed)
			fmt.Fprintf(&b, "Status:       %s\n", st.Status)

			switch st.Status {
			case core.StatusOver100:
				b.WriteString("You are over budget!\n")
			case core.StatusWarning80:
				b.WriteString("Warning: more than 80% of the budget is used.\n")
			}
			return outcome{text: b.String()}, nil
		},
	}
}

func (s *Shell) viewBudgets() *step {
	return &step{
		run: func(ctx context.Context, _ []string) (outcome, error) {
			budgets, err := s.store.ListBudgets(ctx)
			if err != nil {
				return outcome{}, err
			}
			if len(budgets) == 0 {
				return say("No budgets set.\n"), nil
			}

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Month\tBudget")
			for _, bg := range budgets {
				fmt.Fprintf(w, "%s\t%.2f\n", core.Period(bg.Year, bg.Month), bg.Amount)
			}
			w.Flush()
			return outcome{text: b.String()}, nil
		},
	}
}

func (s *Shell) categoryReport() *step {
	return &step{
		run: func(ctx context.Context, _ []string) (outcome, error) {
			summary, err := s.reports.CategorySummary(ctx)
			if err != nil {
				return outcome{}, err
			}
			if len(summary) == 0 {
				return say("No expenses found.\n"), nil
			}
			return outcome{text: categoryTable(summary)}, nil
		},
	}
}

func (s *Shell) monthlyReport() *step {
	return &step{
		run: func(ctx context.Context, _ []string) (outcome, error) {
			summary, err := s.reports.MonthlySummary(ctx)
			if err != nil {
				return outcome{}, err
			}
			if len(summary) == 0 {
				return say("No expenses found.\n"), nil
			}

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Month\tTotal\t")
			for _, m := range summary {
				fmt.Fprintf(w, "%s\t%.2f\t\n", core.Period(m.Year, m.Month), m.Total)
			}
			w.Flush()
			return outcome{text: b.String()}, nil
		},
	}
}

// exportReports writes both summaries. An empty directory answer uses the
// configured reports directory.
func (s *Shell) exportReports() *step {
	return &step{
		prompts: []prompt{{label: "Directory (leave empty for default): "}},
		run: func(ctx context.Context, a []string) (outcome, error) {
			var catPath, monPath string
			if dir := a[0]; dir != "" {
				catPath = filepath.Join(dir, report.CategorySummaryFile)
				monPath = filepath.Join(dir, report.MonthlySummaryFile)
			}

			catWritten, err := s.reports.ExportCategorySummary(ctx, catPath)
			if err != nil {
				return outcome{}, err
			}
			monWritten, err := s.reports.ExportMonthlySummary(ctx, monPath)
			if err != nil {
				return say("Category summary saved to: %s\n", catWritten), err
			}
			return say("Category summary saved to: %s\nMonthly summary saved to: %s\n", catWritten, monWritten), nil
		},
	}
}

func withDefault(label, current string) prompt {
	return prompt{label: fmt.Sprintf("%s [%s]: ", label, current), def: current}
}

func expenseTable(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return "No expenses found.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDate\tCategory\tAmount\tDescription")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", e.ID, e.Date, e.Category, e.Amount, e.Description)
	}
	w.Flush()
	return b.String()
}

func categoryTable(totals []core.CategoryTotal) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tTotal")
	for _, c := range totals {
		fmt.Fprintf(w, "%s\t%.2f\n", c.Category, c.Total)
	}
	w.Flush()
	return b.String()
}
