// Package shell implements the numbered text menu of the expense tracker
// as a Bubble Tea program.
//
// The shell only interprets user input: every answer goes through the core
// validators before it reaches the store, and results are printed as plain
// tables. A failed operation prints a message and returns to the menu.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

type (
	// Store is the data-access surface used by the menu.
	Store interface {
		AddExpense(ctx context.Context, e core.Expense) (int64, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		ListExpensesByCategory(ctx context.Context, category string) ([]core.Expense, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, bool, error)
		UpdateExpense(ctx context.Context, id int64, e core.Expense) (bool, error)
		DeleteExpense(ctx context.Context, id int64) (bool, error)
		TotalSpent(ctx context.Context) (float64, error)
		MonthlyTotal(ctx context.Context, year, month int) (float64, error)
		MonthlyCategoryTotals(ctx context.Context, year, month int) ([]core.CategoryTotal, error)
		SetBudget(ctx context.Context, b core.Budget) error
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	// Reports is the reporting surface used by the menu.
	Reports interface {
		CategorySummary(ctx context.Context) ([]core.CategoryTotal, error)
		MonthlySummary(ctx context.Context) ([]core.MonthTotal, error)
		BudgetStatus(ctx context.Context, year, month int) (core.BudgetStatus, error)
		ExportCategorySummary(ctx context.Context, path string) (string, error)
		ExportMonthlySummary(ctx context.Context, path string) (string, error)
	}
)

type menuItem struct {
	label  string
	title  string // header printed when the item is chosen
	action string // used in error messages: "adding an expense"
	start  func() *step
}

// Shell runs the interactive menu.
type Shell struct {
	store   Store
	reports Reports
	in      io.Reader
	out     io.Writer
	logger  *log.Logger
	menu    []menuItem
}

func New(store Store, reports Reports, in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	s := &Shell{
		store:   store,
		reports: reports,
		in:      in,
		out:     out,
		logger:  logger.WithComponent(log.ComponentShell),
	}
	s.menu = []menuItem{
		{"Add expense", "Add a new expense", "adding an expense", s.addExpense},
		{"View all expenses", "All expenses", "viewing expenses", s.viewAll},
		{"Search expenses by category", "Search expenses by category", "searching expenses", s.searchByCategory},
		{"Update expense", "Update an expense", "updating an expense", s.updateExpense},
		{"Delete expense", "Delete an expense", "deleting an expense", s.deleteExpense},
		{"View total spent (all time)", "", "calculating total spent", s.totalSpent},
		{"View monthly summary", "Monthly summary", "showing the monthly summary", s.monthlyOverview},
		{"Set monthly budget", "Set monthly budget", "setting the budget", s.setBudget},
		{"View budget status", "Budget status", "computing the budget status", s.budgetStatus},
		{"View budgets", "Budgets", "listing budgets", s.viewBudgets},
		{"Category report", "Spending by category", "building the category report", s.categoryReport},
		{"Monthly report", "Spending by month", "building the monthly report", s.monthlyReport},
		{"Export reports to CSV", "Export reports", "exporting reports", s.exportReports},
	}
	return s
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	_, err := s.run(ctx)
	return err
}

func (s *Shell) run(ctx context.Context, opts ...tea.ProgramOption) (*model, error) {
	m := newModel(ctx, s)
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(s.input()),
		tea.WithOutput(s.out),
		tea.WithoutSignalHandler(),
	}, opts...)

	_, err := tea.NewProgram(m, opts...).Run()
	if ctx.Err() != nil {
		fmt.Fprint(s.out, "\n\nInterrupted by user. Exiting the program. Goodbye!\n")
		return m, nil
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return m, fmt.Errorf("run menu: %w", err)
	}
	return m, nil
}

// input hands terminals to Bubble Tea untouched so it can switch them to raw
// mode. Any other reader reports its end as Ctrl+D.
func (s *Shell) input() io.Reader {
	if f, ok := s.in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return f
		}
	}
	return &eotReader{r: s.in}
}

const eot = 0x04

type eotReader struct {
	r    io.Reader
	sent bool
}

func (e *eotReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) && !e.sent {
		if n < len(p) {
			p[n] = eot
			n++
			e.sent = true
		}
		return n, nil
	}
	return n, err
}
