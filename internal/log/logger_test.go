package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf, Component: ComponentStorage})

	logger.Info("Expense saved", FieldExpenseID, 7)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "expense_id=7") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf, Component: ComponentShell})

	logger.WithComponent(ComponentReport).Warn("Budget exceeded", FieldYear, 2025)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentReport || rec["msg"] != "Budget exceeded" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != slog.LevelWarn || cfg.Component != ComponentApp || cfg.Output == nil {
		t.Fatalf("unexpected default config: %+v", cfg)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpCreate).
		WithExpense(3, "Food", 12.5, "2025-12-02").
		WithError(errors.New("boom"))

	if f[FieldExpenseID] != int64(3) || f[FieldCategory] != "Food" || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if got := len(f.ToSlice()); got != len(f)*2 {
		t.Fatalf("ToSlice length = %d, want %d", got, len(f)*2)
	}

	f = NewFields().WithExpense(0, "Food", 1, "2025-01-01").WithError(nil)
	if _, ok := f[FieldExpenseID]; ok {
		t.Fatal("zero id should be omitted")
	}
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error should be omitted")
	}
}
