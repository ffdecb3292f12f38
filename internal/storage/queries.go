package storage

import (
	"context"
	"database/sql"
)

const createExpense = `
INSERT INTO expenses (category, amount, date, description)
VALUES (?, ?, ?, ?)
`

type CreateExpenseParams struct {
	Category    string
	Amount      float64
	Date        string
	Description sql.NullString
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense,
		arg.Category,
		arg.Amount,
		arg.Date,
		arg.Description,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listExpenses = `
SELECT id, category, amount, date, description
FROM expenses
ORDER BY date, id
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const listExpensesByCategory = `
SELECT id, category, amount, date, description
FROM expenses
WHERE LOWER(category) = LOWER(?)
ORDER BY date, id
`

func (q *Queries) ListExpensesByCategory(ctx context.Context, category string) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesByCategory, category)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const getExpense = `
SELECT id, category, amount, date, description
FROM expenses
WHERE id = ?
`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Category,
		&i.Amount,
		&i.Date,
		&i.Description,
	)
	return i, err
}

const updateExpense = `
UPDATE expenses
SET category = ?, amount = ?, date = ?, description = ?
WHERE id = ?
`

type UpdateExpenseParams struct {
	Category    string
	Amount      float64
	Date        string
	Description sql.NullString
	ID          int64
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateExpense,
		arg.Category,
		arg.Amount,
		arg.Date,
		arg.Description,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteExpense = `
DELETE FROM expenses
WHERE id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getTotalSpent = `
SELECT CAST(COALESCE(SUM(amount), 0) AS REAL)
FROM expenses
`

func (q *Queries) GetTotalSpent(ctx context.Context) (float64, error) {
	row := q.db.QueryRowContext(ctx, getTotalSpent)
	var total float64
	err := row.Scan(&total)
	return total, err
}

const getMonthTotal = `
SELECT CAST(COALESCE(SUM(amount), 0) AS REAL)
FROM expenses
WHERE substr(date, 1, 7) = ?
`

// GetMonthTotal sums the expenses whose date starts with period ("YYYY-MM").
func (q *Queries) GetMonthTotal(ctx context.Context, period string) (float64, error) {
	row := q.db.QueryRowContext(ctx, getMonthTotal, period)
	var total float64
	err := row.Scan(&total)
	return total, err
}

const getCategorySums = `
SELECT category, CAST(SUM(amount) AS REAL) AS total_amount
FROM expenses
WHERE substr(date, 1, 7) = ?
GROUP BY category
ORDER BY total_amount DESC, category
`

func (q *Queries) GetCategorySums(ctx context.Context, period string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var i CategorySum
		if err := rows.Scan(&i.Category, &i.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertBudget = `
INSERT INTO budgets (month, year, amount)
VALUES (?, ?, ?)
ON CONFLICT (month, year) DO UPDATE SET amount = excluded.amount
`

type UpsertBudgetParams struct {
	Month  int64
	Year   int64
	Amount float64
}

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.Month, arg.Year, arg.Amount)
	return err
}

const getBudget = `
SELECT amount
FROM budgets
WHERE month = ? AND year = ?
`

func (q *Queries) GetBudget(ctx context.Context, month, year int64) (float64, error) {
	row := q.db.QueryRowContext(ctx, getBudget, month, year)
	var amount float64
	err := row.Scan(&amount)
	return amount, err
}

const listBudgets = `
SELECT month, year, amount
FROM budgets
ORDER BY year, month
`

func (q *Queries) ListBudgets(ctx context.Context) ([]Budget, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Budget
	for rows.Next() {
		var i Budget
		if err := rows.Scan(&i.Month, &i.Year, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanExpenses(rows *sql.Rows) ([]Expense, error) {
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID,
			&i.Category,
			&i.Amount,
			&i.Date,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
