package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

func tx(cat finance.Category, typ finance.TransactionType, amount float64, date string) finance.Transaction {
	return finance.Transaction{Category: cat, Type: typ, Amount: amount, Date: date, Description: string(cat)}
}

func TestComputeTotals(t *testing.T) {
	txs := []finance.Transaction{
		tx(finance.CategorySalary, finance.Income, 3200, "2024-03-01"),
		tx(finance.CategoryFreelance, finance.Income, 850, "2024-03-04"),
		tx(finance.CategoryHousing, finance.Expense, 1500, "2024-03-05"),
		tx(finance.CategoryFood, finance.Expense, 96.72, "2024-03-06"),
		tx(finance.CategoryFood, finance.Expense, 0.1, "2024-03-07"),
		tx(finance.CategoryFood, finance.Expense, 0.2, "2024-03-08"),
	}

	got := ComputeTotals(txs)
	assert.Equal(t, 4050.0, got.Income)
	assert.Equal(t, 1597.02, got.Expenses)
	assert.Equal(t, 2452.98, got.Net)
	assert.Equal(t, 60.57, got.SavingsRate)
	assert.Equal(t, 6, got.TransactionCount)
}

func TestComputeTotalsNoIncome(t *testing.T) {
	got := ComputeTotals([]finance.Transaction{tx(finance.CategoryFood, finance.Expense, 12, "2024-03-01")})
	assert.Zero(t, got.SavingsRate)
	assert.Equal(t, -12.0, got.Net)

	assert.Equal(t, Totals{}, ComputeTotals(nil))
}

func TestByCategory(t *testing.T) {
	txs := []finance.Transaction{
		tx(finance.CategoryFood, finance.Expense, 60, "2024-03-01"),
		tx(finance.CategorySalary, finance.Income, 3000, "2024-03-01"),
		tx(finance.CategoryHousing, finance.Expense, 300, "2024-03-02"),
		tx(finance.CategoryFood, finance.Expense, 40, "2024-03-03"),
		tx("Pets", finance.Expense, 100, "2024-03-04"),
	}

	got := ByCategory(txs)
	if assert.Len(t, got, 3) {
		assert.Equal(t, finance.CategoryHousing, got[0].Category)
		assert.Equal(t, 300.0, got[0].Total)
		assert.Equal(t, 60.0, got[0].Percent)
		assert.Equal(t, "#c0392b", got[0].Color)

		// equal totals keep first-seen order
		assert.Equal(t, finance.CategoryFood, got[1].Category)
		assert.Equal(t, 2, got[1].Count)
		assert.Equal(t, finance.Category("Pets"), got[2].Category)
		assert.Empty(t, got[2].Color)
	}

	assert.Empty(t, ByCategory(nil))
}

func TestPeriodWindow(t *testing.T) {
	wed := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

	start, end := PeriodWindow(finance.PeriodWeekly, "", wed)
	assert.Equal(t, "2024-03-11", start.Format(time.DateOnly))
	assert.Equal(t, "2024-03-18", end.Format(time.DateOnly))

	start, end = PeriodWindow(finance.PeriodMonthly, "2024-01-01", wed)
	assert.Equal(t, "2024-03-01", start.Format(time.DateOnly))
	assert.Equal(t, "2024-04-01", end.Format(time.DateOnly))

	start, _ = PeriodWindow(finance.PeriodMonthly, "2024-03-10", wed)
	assert.Equal(t, "2024-03-10", start.Format(time.DateOnly))

	start, end = PeriodWindow(finance.PeriodYearly, "", wed)
	assert.Equal(t, "2024-01-01", start.Format(time.DateOnly))
	assert.Equal(t, "2025-01-01", end.Format(time.DateOnly))

	sunday := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	start, _ = PeriodWindow(finance.PeriodWeekly, "", sunday)
	assert.Equal(t, "2024-03-11", start.Format(time.DateOnly))
}

func TestBudgetProgress(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	budget := finance.Budget{ID: "b1", Category: finance.CategoryFood, Amount: 400, Period: finance.PeriodMonthly, StartDate: "2024-01-01"}
	txs := []finance.Transaction{
		tx(finance.CategoryFood, finance.Expense, 250, "2024-03-02"),
		tx(finance.CategoryFood, finance.Expense, 200.5, "2024-03-31"),
		tx(finance.CategoryFood, finance.Expense, 999, "2024-02-29"),
		tx(finance.CategoryFood, finance.Expense, 999, "2024-04-01"),
		tx(finance.CategoryFood, finance.Income, 999, "2024-03-05"),
		tx(finance.CategoryTravel, finance.Expense, 999, "2024-03-05"),
		tx(finance.CategoryFood, finance.Expense, 999, "garbage"),
	}

	got := BudgetProgress(budget, txs, now)
	assert.Equal(t, BudgetStatus{
		BudgetID:    "b1",
		Category:    finance.CategoryFood,
		Limit:       400,
		Spent:       450.5,
		Remaining:   -50.5,
		Percent:     112.63,
		OverBudget:  true,
		PeriodStart: "2024-03-01",
		PeriodEnd:   "2024-03-31",
	}, got)
}

func TestGoalProgress(t *testing.T) {
	got := GoalProgress(finance.Goal{ID: "g1", Name: "Trip", TargetAmount: 2000, CurrentAmount: 500})
	assert.Equal(t, 25.0, got.Percent)
	assert.Equal(t, 1500.0, got.Remaining)
	assert.False(t, got.Reached)

	got = GoalProgress(finance.Goal{TargetAmount: 100, CurrentAmount: 250})
	assert.Equal(t, 100.0, got.Percent)
	assert.Zero(t, got.Remaining)
	assert.True(t, got.Reached)

	got = GoalProgress(finance.Goal{TargetAmount: 0, CurrentAmount: 10})
	assert.Zero(t, got.Percent)
	assert.False(t, got.Reached)
}
