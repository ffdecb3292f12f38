package core

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted textual form of an expense date.
const DateLayout = "2006-01-02"

type (
	// Expense is a single recorded spending. ID is assigned by the store and
	// is zero for expenses that have not been persisted yet.
	Expense struct {
		ID          int64
		Category    string
		Amount      float64
		Date        string // YYYY-MM-DD
		Description string
	}

	// Budget is the spending limit for one calendar month.
	Budget struct {
		Month  int // 1-12
		Year   int
		Amount float64
	}
)

// NewExpense validates raw user input and builds an Expense from it.
// The first failing field is reported.
func NewExpense(category, amount, date, description string) (Expense, error) {
	cat, err := ValidateCategory(category)
	if err != nil {
		return Expense{}, err
	}
	amt, err := ValidateAmount(amount)
	if err != nil {
		return Expense{}, err
	}
	d, err := ValidateDate(date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Category:    cat,
		Amount:      amt,
		Date:        d,
		Description: description,
	}, nil
}

// NewBudget validates raw user input and builds a Budget from it.
func NewBudget(month, year int, amount string) (Budget, error) {
	if err := ValidateMonth(month); err != nil {
		return Budget{}, err
	}
	if err := ValidateYear(year); err != nil {
		return Budget{}, err
	}
	amt, err := ValidateBudgetAmount(amount)
	if err != nil {
		return Budget{}, err
	}
	return Budget{Month: month, Year: year, Amount: amt}, nil
}

// ParsedDate parses the stored date; it reports false for malformed values.
func (e Expense) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Period formats a calendar month as "YYYY-MM", the prefix of its dates.
func Period(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
