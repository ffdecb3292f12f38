package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

var quietLogger = log.New(log.Config{Output: io.Discard})

type fakeStore struct {
	expenses []core.Expense
	budgets  map[[2]int]float64
	err      error
}

func (f *fakeStore) ListExpenses(context.Context) ([]core.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeStore) GetBudget(_ context.Context, month, year int) (float64, bool, error) {
	amount, ok := f.budgets[[2]int{month, year}]
	return amount, ok, nil
}

func newFake(expenses ...core.Expense) *fakeStore {
	return &fakeStore{expenses: expenses, budgets: map[[2]int]float64{}}
}

func exp(category string, amount float64, date string) core.Expense {
	return core.Expense{Category: category, Amount: amount, Date: date}
}

func TestCategorySummary(t *testing.T) {
	orders := [][]core.Expense{
		{exp("Food", 10, "2025-12-01"), exp("Food", 5, "2025-12-02"), exp("Rent", 100, "2025-12-03")},
		{exp("Rent", 100, "2025-12-03"), exp("Food", 5, "2025-12-02"), exp("Food", 10, "2025-12-01")},
	}
	want := []core.CategoryTotal{{Category: "Food", Total: 15}, {Category: "Rent", Total: 100}}

	for i, in := range orders {
		svc := NewService(newFake(in...), newFake(), t.TempDir(), quietLogger)
		got, err := svc.CategorySummary(context.Background())
		if err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("order %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestCategorySummary_CaseSensitiveAndEmpty(t *testing.T) {
	svc := NewService(newFake(), newFake(), t.TempDir(), quietLogger)
	got, err := svc.CategorySummary(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty summary, got %+v (err=%v)", got, err)
	}

	store := newFake(exp("Food", 1, "2025-01-01"), exp("food", 2, "2025-01-01"))
	svc = NewService(store, store, t.TempDir(), quietLogger)
	got, _ = svc.CategorySummary(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected Food and food as separate groups, got %+v", got)
	}
}

func TestCategorySummary_NoFloatDrift(t *testing.T) {
	store := newFake(exp("Food", 0.1, "2025-01-01"), exp("Food", 0.2, "2025-01-02"))
	svc := NewService(store, store, t.TempDir(), quietLogger)
	got, _ := svc.CategorySummary(context.Background())
	if len(got) != 1 || got[0].Total != 0.3 {
		t.Fatalf("expected 0.3, got %+v", got)
	}
}

func TestSummaries_KeepSubCentAmounts(t *testing.T) {
	amount, err := core.ValidateAmount("0.004")
	if err != nil {
		t.Fatalf("validate amount: %v", err)
	}
	store := newFake(exp("Coffee", amount, "2025-12-01"), exp("Coffee", 0.001, "2025-12-02"))
	svc := NewService(store, store, t.TempDir(), quietLogger)
	ctx := context.Background()

	cats, err := svc.CategorySummary(ctx)
	if err != nil {
		t.Fatalf("category summary: %v", err)
	}
	if len(cats) != 1 || cats[0].Total != 0.005 {
		t.Fatalf("category total = %+v, want 0.005", cats)
	}

	months, err := svc.MonthlySummary(ctx)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if len(months) != 1 || months[0].Total != 0.005 {
		t.Fatalf("month total = %+v, want 0.005", months)
	}

	path, err := svc.ExportCategorySummary(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	assertFile(t, path, "category,total_amount\nCoffee,0.005\n")
}

func TestMonthlySummary(t *testing.T) {
	store := newFake(
		exp("Food", 10, "2025-12-01"),
		exp("Rent", 100, "2025-11-03"),
		exp("Food", 5.25, "2025-12-31"),
		exp("Food", 7, "2024-12-15"),
		exp("Food", 99, "garbage"),
	)
	svc := NewService(store, store, t.TempDir(), quietLogger)
	got, err := svc.MonthlySummary(context.Background())
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	want := []core.MonthTotal{
		{Year: 2024, Month: 12, Total: 7},
		{Year: 2025, Month: 11, Total: 100},
		{Year: 2025, Month: 12, Total: 15.25},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBudgetStatus(t *testing.T) {
	store := newFake(
		exp("Rent", 800, "2025-12-01"),
		exp("Food", 50, "2025-12-20"),
		exp("Food", 500, "2025-11-20"),
		exp("Food", 500, "not-a-date"),
	)
	store.budgets[[2]int{12, 2025}] = 1000
	svc := NewService(store, store, t.TempDir(), quietLogger)

	got, err := svc.BudgetStatus(context.Background(), 2025, 12)
	if err != nil {
		t.Fatalf("budget status: %v", err)
	}
	want := core.BudgetStatus{
		Year:        2025,
		Month:       12,
		Spent:       850,
		Budget:      1000,
		Remaining:   150,
		PercentUsed: 85,
		Status:      core.StatusWarning80,
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestBudgetStatus_Classification(t *testing.T) {
	cases := []struct {
		name   string
		spent  float64
		budget float64
		want   string
		pct    float64
	}{
		{"no budget", 850, 0, core.StatusNoBudgetSet, 0},
		{"no budget no spend", 0, 0, core.StatusNoBudgetSet, 0},
		{"over", 1200, 1000, core.StatusOver100, 120},
		{"exactly full", 1000, 1000, core.StatusOver100, 100},
		{"ok", 300, 1000, core.StatusOK, 30},
		{"rounded pct", 1, 3, core.StatusOK, 33.33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFake()
			if tc.spent > 0 {
				store.expenses = append(store.expenses, exp("X", tc.spent, "2025-06-10"))
			}
			if tc.budget > 0 {
				store.budgets[[2]int{6, 2025}] = tc.budget
			}
			svc := NewService(store, store, t.TempDir(), quietLogger)
			got, err := svc.BudgetStatus(context.Background(), 2025, 6)
			if err != nil {
				t.Fatalf("budget status: %v", err)
			}
			if got.Status != tc.want || got.PercentUsed != tc.pct {
				t.Fatalf("got status=%s pct=%v, want status=%s pct=%v", got.Status, got.PercentUsed, tc.want, tc.pct)
			}
			if tc.budget == 0 && got.Remaining != -tc.spent {
				t.Fatalf("expected remaining %v, got %v", -tc.spent, got.Remaining)
			}
		})
	}
}

func TestServicePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	store := &fakeStore{err: boom}
	svc := NewService(store, store, t.TempDir(), quietLogger)
	ctx := context.Background()

	if _, err := svc.CategorySummary(ctx); !errors.Is(err, boom) {
		t.Fatalf("category summary: expected boom, got %v", err)
	}
	if _, err := svc.MonthlySummary(ctx); !errors.Is(err, boom) {
		t.Fatalf("monthly summary: expected boom, got %v", err)
	}
	if _, err := svc.BudgetStatus(ctx, 2025, 1); !errors.Is(err, boom) {
		t.Fatalf("budget status: expected boom, got %v", err)
	}
	if _, err := svc.ExportCategorySummary(ctx, ""); !errors.Is(err, boom) {
		t.Fatalf("export: expected boom, got %v", err)
	}
}

func TestExportDefaultLocation(t *testing.T) {
	store := newFake(exp("Food", 10, "2025-12-01"), exp("Rent", 100.5, "2025-11-01"))
	dir := filepath.Join(t.TempDir(), "reports")
	svc := NewService(store, store, dir, quietLogger)
	ctx := context.Background()

	path, err := svc.ExportCategorySummary(ctx, "")
	if err != nil {
		t.Fatalf("export category summary: %v", err)
	}
	if path != filepath.Join(dir, CategorySummaryFile) {
		t.Fatalf("unexpected path %s", path)
	}
	assertFile(t, path, "category,total_amount\nFood,10.0\nRent,100.5\n")

	path, err = svc.ExportMonthlySummary(ctx, "")
	if err != nil {
		t.Fatalf("export monthly summary: %v", err)
	}
	if path != filepath.Join(dir, MonthlySummaryFile) {
		t.Fatalf("unexpected path %s", path)
	}
	assertFile(t, path, "year,month,total_amount\n2025,11,100.5\n2025,12,10.0\n")
}

func TestExportExplicitPath(t *testing.T) {
	store := newFake()
	svc := NewService(store, store, filepath.Join(t.TempDir(), "unused"), quietLogger)
	target := filepath.Join(t.TempDir(), "cats.csv")

	path, err := svc.ExportCategorySummary(context.Background(), target)
	if err != nil || path != target {
		t.Fatalf("export: path=%s err=%v", path, err)
	}
	assertFile(t, path, "category,total_amount\n")

	if _, err := os.Stat(svc.reportsDir); !os.IsNotExist(err) {
		t.Fatalf("default reports dir should not be created, stat err=%v", err)
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if got := strings.ReplaceAll(string(data), "\r\n", "\n"); got != want {
		t.Fatalf("unexpected content of %s:\n%s\nwant:\n%s", path, got, want)
	}
}

func TestService_LogsAsReportComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf, Component: log.ComponentApp})
	store := newFake(exp("Food", 3, "bad-date"))
	svc := NewService(store, store, t.TempDir(), logger)

	if _, err := svc.MonthlySummary(context.Background()); err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if _, err := svc.ExportCategorySummary(context.Background(), ""); err != nil {
		t.Fatalf("export: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"component=report", "Skipping expense with unparsable date", "Report exported"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "component=app") {
		t.Fatalf("report logs should not use the app component:\n%s", out)
	}
}
