// Package summary derives the figures shown on the dashboard cards. Sums are
// accumulated as decimals and rounded to cents on the way out.
package summary

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

var hundred = decimal.NewFromInt(100)

// Totals is the income/expense overview.
type Totals struct {
	Income           float64 `json:"totalIncome"`
	Expenses         float64 `json:"totalExpenses"`
	Net              float64 `json:"net"`
	SavingsRate      float64 `json:"savingsRate"` // percent of income kept
	TransactionCount int     `json:"transactionCount"`
}

// CategoryTotal is the expense sum for one category.
type CategoryTotal struct {
	Category finance.Category `json:"category"`
	Color    string           `json:"color,omitempty"`
	Total    float64          `json:"total"`
	Percent  float64          `json:"percent"` // share of all expenses
	Count    int              `json:"count"`
}

// BudgetStatus is a budget measured against the current period.
type BudgetStatus struct {
	BudgetID    string           `json:"budgetId"`
	Category    finance.Category `json:"category"`
	Limit       float64          `json:"limit"`
	Spent       float64          `json:"spent"`
	Remaining   float64          `json:"remaining"`
	Percent     float64          `json:"percent"`
	OverBudget  bool             `json:"overBudget"`
	PeriodStart string           `json:"periodStart"`
	PeriodEnd   string           `json:"periodEnd"`
}

// GoalStatus is the progress toward a savings goal.
type GoalStatus struct {
	GoalID    string  `json:"goalId"`
	Name      string  `json:"name"`
	Target    float64 `json:"target"`
	Current   float64 `json:"current"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	Reached   bool    `json:"reached"`
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// amount is the unsigned size of a transaction; the type tag carries direction.
func amount(t finance.Transaction) decimal.Decimal {
	return decimal.NewFromFloat(t.Amount).Abs()
}

// percent returns part/whole*100, or zero when whole is zero.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ComputeTotals sums income and expenses over txs.
func ComputeTotals(txs []finance.Transaction) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case finance.Income:
			income = income.Add(amount(t))
		case finance.Expense:
			expenses = expenses.Add(amount(t))
		}
	}
	net := income.Sub(expenses)
	return Totals{
		Income:           cents(income),
		Expenses:         cents(expenses),
		Net:              cents(net),
		SavingsRate:      cents(percent(net, income)),
		TransactionCount: len(txs),
	}
}

// ByCategory groups expenses by category, largest first. Ties keep the order
// in which categories first appear.
func ByCategory(txs []finance.Transaction) []CategoryTotal {
	type acc struct {
		total decimal.Decimal
		count int
	}
	sums := make(map[finance.Category]*acc)
	var order []finance.Category
	all := decimal.Zero

	for _, t := range txs {
		if t.Type != finance.Expense {
			continue
		}
		a, ok := sums[t.Category]
		if !ok {
			a = &acc{total: decimal.Zero}
			sums[t.Category] = a
			order = append(order, t.Category)
		}
		a.total = a.total.Add(amount(t))
		a.count++
		all = all.Add(amount(t))
	}

	colors := make(map[finance.Category]string)
	for _, info := range finance.Categories() {
		colors[info.Name] = info.Color
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		a := sums[c]
		out = append(out, CategoryTotal{
			Category: c,
			Color:    colors[c],
			Total:    cents(a.total),
			Percent:  cents(percent(a.total, all)),
			Count:    a.count,
		})
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		}
		return 0
	})
	return out
}

// PeriodWindow returns the [start, end) window of the given period that
// contains now. Weeks start on Monday. The window never starts before the
// budget's own start date.
func PeriodWindow(period finance.BudgetPeriod, startDate string, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch period {
	case finance.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7)
	case finance.PeriodYearly:
		start = time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	default:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}

	if s, err := finance.ParseDate(startDate); err == nil && s.After(start) {
		start = s
	}
	return start, end
}

// BudgetProgress measures budget against expenses of its category that fall
// inside the current period window.
func BudgetProgress(budget finance.Budget, txs []finance.Transaction, now time.Time) BudgetStatus {
	start, end := PeriodWindow(budget.Period, budget.StartDate, now)

	spent := decimal.Zero
	for _, t := range txs {
		if t.Type != finance.Expense || t.Category != budget.Category {
			continue
		}
		d, err := finance.ParseDate(t.Date)
		if err != nil || d.Before(start) || !d.Before(end) {
			continue
		}
		spent = spent.Add(amount(t))
	}

	limit := decimal.NewFromFloat(budget.Amount)
	return BudgetStatus{
		BudgetID:    budget.ID,
		Category:    budget.Category,
		Limit:       cents(limit),
		Spent:       cents(spent),
		Remaining:   cents(limit.Sub(spent)),
		Percent:     cents(percent(spent, limit)),
		OverBudget:  spent.GreaterThan(limit),
		PeriodStart: start.Format(time.DateOnly),
		PeriodEnd:   end.AddDate(0, 0, -1).Format(time.DateOnly),
	}
}

// GoalProgress reports how far a goal is from its target. Percent is capped
// at 100 and Remaining never goes below zero.
func GoalProgress(goal finance.Goal) GoalStatus {
	target := decimal.NewFromFloat(goal.TargetAmount)
	current := decimal.NewFromFloat(goal.CurrentAmount)

	pct := percent(current, target)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	remaining := target.Sub(current)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return GoalStatus{
		GoalID:    goal.ID,
		Name:      goal.Name,
		Target:    cents(target),
		Current:   cents(current),
		Remaining: cents(remaining),
		Percent:   cents(pct),
		Reached:   target.IsPositive() && !current.LessThan(target),
	}
}
