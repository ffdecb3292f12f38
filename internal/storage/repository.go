package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expense-tracker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrStoreUnavailable is wrapped by every failure to open or reach the
// database file.
var ErrStoreUnavailable = errors.New("expense store unavailable")

// SQLiteRepository is the data-access layer over the expenses and budgets
// tables. It holds only the resolved database path: every operation opens
// its own connection and releases it before returning.
type SQLiteRepository struct {
	dbPath string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStoreUnavailable)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", ErrStoreUnavailable, err)
	}

	repo := &SQLiteRepository{dbPath: dbPath}

	// Fail fast if the file cannot be opened
	if err := repo.withConn(context.Background(), func(*Queries) error { return nil }); err != nil {
		return nil, err
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return repo, nil
}

// Path returns the database file location.
func (r *SQLiteRepository) Path() string {
	return r.dbPath
}

// withConn opens a connection scoped to a single operation and always
// closes it, whatever fn returns.
func (r *SQLiteRepository) withConn(ctx context.Context, fn func(q *Queries) error) error {
	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("%w: open sqlite database: %v", ErrStoreUnavailable, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %v", ErrStoreUnavailable, err)
	}

	return fn(New(db))
}

// AddExpense inserts e and returns the identifier assigned by the store.
// Business rules are not checked here.
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	var id int64
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		id, err = q.CreateExpense(ctx, CreateExpenseParams{
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: sql.NullString{String: e.Description, Valid: true},
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date)

	return id, nil
}

// ListExpenses returns every expense ordered by date.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var rows []Expense
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		rows, err = q.ListExpenses(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return toCoreExpenses(rows), nil
}

// ListExpensesByCategory matches category case-insensitively.
func (r *SQLiteRepository) ListExpensesByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	var rows []Expense
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		rows, err = q.ListExpensesByCategory(ctx, category)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses for category %s: %w", category, err)
	}
	return toCoreExpenses(rows), nil
}

// GetExpense returns the expense with the given id. found is false when no
// such row exists.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (e core.Expense, found bool, err error) {
	var row Expense
	err = r.withConn(ctx, func(q *Queries) error {
		var err error
		row, err = q.GetExpense(ctx, id)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense by id: %w", err)
	}
	return row.toCore(), true, nil
}

// UpdateExpense replaces every field of the expense with the given id and
// reports whether such a row existed.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, e core.Expense) (bool, error) {
	var affected int64
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		affected, err = q.UpdateExpense(ctx, UpdateExpenseParams{
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: sql.NullString{String: e.Description, Valid: true},
			ID:          id,
		})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}

	if affected == 0 {
		slog.WarnContext(ctx, "Expense not found for update", "id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Expense updated", "id", id)
	return true, nil
}

// DeleteExpense removes the expense with the given id and reports whether
// a row was deleted.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		affected, err = q.DeleteExpense(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	if affected == 0 {
		slog.WarnContext(ctx, "Expense not found for delete", "id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return true, nil
}

// TotalSpent sums every recorded expense.
func (r *SQLiteRepository) TotalSpent(ctx context.Context) (float64, error) {
	var total float64
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		total, err = q.GetTotalSpent(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get total spent: %w", err)
	}
	return total, nil
}

// MonthlyTotal sums the expenses dated in the given month.
func (r *SQLiteRepository) MonthlyTotal(ctx context.Context, year, month int) (float64, error) {
	var total float64
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		total, err = q.GetMonthTotal(ctx, core.Period(year, month))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get month total: %w", err)
	}
	return total, nil
}

// MonthlyCategoryTotals returns per-category totals for a month, largest first.
func (r *SQLiteRepository) MonthlyCategoryTotals(ctx context.Context, year, month int) ([]core.CategoryTotal, error) {
	var sums []CategorySum
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		sums, err = q.GetCategorySums(ctx, core.Period(year, month))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}

	totals := make([]core.CategoryTotal, len(sums))
	for i, s := range sums {
		totals[i] = core.CategoryTotal{Category: s.Category, Total: s.TotalAmount}
	}
	return totals, nil
}

// SetBudget stores the budget for its month, replacing any previous amount.
func (r *SQLiteRepository) SetBudget(ctx context.Context, b core.Budget) error {
	err := r.withConn(ctx, func(q *Queries) error {
		return q.UpsertBudget(ctx, UpsertBudgetParams{
			Month:  int64(b.Month),
			Year:   int64(b.Year),
			Amount: b.Amount,
		})
	})
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"month", b.Month,
		"year", b.Year,
		"amount", b.Amount)
	return nil
}

// GetBudget returns the budget amount for a month. ok is false when no
// budget was ever set for it.
func (r *SQLiteRepository) GetBudget(ctx context.Context, month, year int) (amount float64, ok bool, err error) {
	err = r.withConn(ctx, func(q *Queries) error {
		var err error
		amount, err = q.GetBudget(ctx, int64(month), int64(year))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get budget: %w", err)
	}
	return amount, true, nil
}

// ListBudgets returns every stored budget ordered by year and month.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var rows []Budget
	err := r.withConn(ctx, func(q *Queries) error {
		var err error
		rows, err = q.ListBudgets(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	budgets := make([]core.Budget, len(rows))
	for i, b := range rows {
		budgets[i] = b.toCore()
	}
	return budgets, nil
}

func toCoreExpenses(rows []Expense) []core.Expense {
	expenses := make([]core.Expense, len(rows))
	for i, e := range rows {
		expenses[i] = e.toCore()
	}
	return expenses
}
