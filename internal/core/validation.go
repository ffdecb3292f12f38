// Package core provides the expense and budget value objects together with
// the input validators used before anything reaches the store.
//
// Validators return the cleaned value and a nil error, or a *ValidationError
// whose Kind is one of the sentinel errors below:
//
//	amount, err := core.ValidateAmount("12.5")
//	if errors.Is(err, core.ErrInvalidAmount) { ... }
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidBudget   = errors.New("invalid budget")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidID       = errors.New("invalid id")
)

// ValidationError describes a rejected user input.
type ValidationError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

// ValidateAmount parses s as a real number strictly greater than zero.
func ValidateAmount(s string) (float64, error) {
	v, reason := parsePositive(s)
	if reason != "" {
		return 0, invalid(ErrInvalidAmount, "amount", reason)
	}
	return v, nil
}

// ValidateBudgetAmount applies the amount rule but reports ErrInvalidBudget.
func ValidateBudgetAmount(s string) (float64, error) {
	v, reason := parsePositive(s)
	if reason != "" {
		return 0, invalid(ErrInvalidBudget, "budget", reason)
	}
	return v, nil
}

func parsePositive(s string) (float64, string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "must be a numeric value"
	}
	if v <= 0 {
		return 0, "must be greater than 0"
	}
	return v, ""
}

// ValidateDate accepts only real calendar dates written as YYYY-MM-DD.
func ValidateDate(s string) (string, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", invalid(ErrInvalidDate, "date", "must be a real date in format YYYY-MM-DD (e.g. 2025-12-02)")
	}
	return s, nil
}

// ValidateCategory trims surrounding whitespace and rejects empty names.
func ValidateCategory(s string) (string, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return "", invalid(ErrInvalidCategory, "category", "cannot be empty")
	}
	return cleaned, nil
}

// ValidateMonth accepts calendar months 1 to 12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return invalid(ErrInvalidPeriod, "month", "must be between 1 and 12")
	}
	return nil
}

// ValidateYear accepts years 1 to 9999.
func ValidateYear(year int) error {
	if year < 1 || year > 9999 {
		return invalid(ErrInvalidPeriod, "year", "must be between 1 and 9999")
	}
	return nil
}

// ParsePeriod parses a year and a month typed as text.
func ParsePeriod(year, month string) (int, int, error) {
	y, yerr := strconv.Atoi(strings.TrimSpace(year))
	m, merr := strconv.Atoi(strings.TrimSpace(month))
	if yerr != nil || merr != nil {
		return 0, 0, invalid(ErrInvalidPeriod, "year/month", "must be whole numbers")
	}
	if err := ValidateYear(y); err != nil {
		return 0, 0, err
	}
	if err := ValidateMonth(m); err != nil {
		return 0, 0, err
	}
	return y, m, nil
}

// ValidateID parses an expense identifier typed as text.
func ValidateID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(ErrInvalidID, "id", "must be a positive whole number")
	}
	return id, nil
}
