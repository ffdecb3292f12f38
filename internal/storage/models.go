package storage

import (
	"database/sql"

	"expense-tracker/internal/core"
)

// Expense is a row of the expenses table.
type Expense struct {
	ID          int64
	Category    string
	Amount      float64
	Date        string
	Description sql.NullString
}

// Budget is a row of the budgets table.
type Budget struct {
	Month  int64
	Year   int64
	Amount float64
}

type CategorySum struct {
	Category    string
	TotalAmount float64
}

func (e Expense) toCore() core.Expense {
	return core.Expense{
		ID:          e.ID,
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.Date,
		Description: e.Description.String,
	}
}

func (b Budget) toCore() core.Budget {
	return core.Budget{
		Month:  int(b.Month),
		Year:   int(b.Year),
		Amount: b.Amount,
	}
}
