package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/ledger"
)

type demoTransaction struct {
	daysAgo     int
	description string
	amount      float64
	category    finance.Category
	typ         finance.TransactionType
	account     string
}

var demoTransactions = []demoTransaction{
	{28, "Monthly Salary", 3200.00, finance.CategorySalary, finance.Income, "checking"},
	{25, "Freelance: Landing Page", 850.00, finance.CategoryFreelance, finance.Income, "checking"},
	{24, "Rent - Apartment", 1500.00, finance.CategoryHousing, finance.Expense, "checking"},
	{22, "Utilities - Electricity", 120.45, finance.CategoryBills, finance.Expense, "checking"},
	{20, "Groceries - Whole Foods", 96.72, finance.CategoryFood, finance.Expense, "credit"},
	{19, "Subway Pass", 45.00, finance.CategoryTransport, finance.Expense, "credit"},
	{16, "Movie Night", 28.50, finance.CategoryEntertainment, finance.Expense, "credit"},
	{14, "Groceries - Trader Joes", 64.11, finance.CategoryFood, finance.Expense, "credit"},
	{13, "Freelance: Dashboard Charts", 600.00, finance.CategoryFreelance, finance.Income, "checking"},
	{11, "Utilities - Internet", 60.00, finance.CategoryBills, finance.Expense, "checking"},
	{8, "Concert Tickets", 140.00, finance.CategoryEntertainment, finance.Expense, "credit"},
	{6, "Groceries - Costco", 132.39, finance.CategoryFood, finance.Expense, "credit"},
	{4, "Rideshare", 22.30, finance.CategoryTransport, finance.Expense, "credit"},
	{1, "Dinner Out", 54.80, finance.CategoryFood, finance.Expense, "credit"},
}

// demoSnapshot builds a month of sample activity ending at now.
func demoSnapshot(now time.Time) finance.SyncData {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)

	accounts := []finance.Account{
		{Name: "Everyday Checking", Type: finance.AccountChecking, Balance: 4210.18, Currency: "USD", Color: "#3498db"},
		{Name: "Rewards Card", Type: finance.AccountCredit, Balance: -583.82, Currency: "USD", Color: "#e74c3c"},
		{Name: "High Yield Savings", Type: finance.AccountSavings, Balance: 12500, Currency: "USD", Color: "#27ae60"},
	}
	accountIDs := make(map[string]string, len(accounts))
	for i := range accounts {
		accounts[i].ID = uuid.NewString()
		accounts[i].CreatedAt = now
		accounts[i].UpdatedAt = now
		accountIDs[string(accounts[i].Type)] = accounts[i].ID
	}

	transactions := make([]finance.Transaction, 0, len(demoTransactions))
	for _, d := range demoTransactions {
		transactions = append(transactions, finance.Transaction{
			ID:          uuid.NewString(),
			AccountID:   accountIDs[d.account],
			Amount:      d.amount,
			Description: d.description,
			Category:    d.category,
			Date:        today.AddDate(0, 0, -d.daysAgo).Format(time.DateOnly),
			Type:        d.typ,
			IsRecurring: d.category == finance.CategorySalary || d.category == finance.CategoryHousing,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	budgets := []finance.Budget{
		{Category: finance.CategoryFood, Amount: 400, Period: finance.PeriodMonthly},
		{Category: finance.CategoryEntertainment, Amount: 200, Period: finance.PeriodMonthly},
		{Category: finance.CategoryTransport, Amount: 150, Period: finance.PeriodMonthly},
	}
	for i := range budgets {
		budgets[i].ID = uuid.NewString()
		budgets[i].StartDate = monthStart
		budgets[i].CreatedAt = now
		budgets[i].UpdatedAt = now
	}

	goals := []finance.Goal{
		{ID: uuid.NewString(), Name: "Emergency Fund", TargetAmount: 15000, CurrentAmount: 12500, Color: "#27ae60", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Summer Trip", TargetAmount: 2500, CurrentAmount: 600, Deadline: today.AddDate(0, 6, 0).Format(time.DateOnly), Color: "#d35400", CreatedAt: now, UpdatedAt: now},
	}

	recurring := []finance.RecurringPattern{
		{ID: uuid.NewString(), Description: "Monthly Salary", Amount: 3200, Category: finance.CategorySalary, Type: finance.Income, AccountID: accountIDs["checking"], Frequency: finance.Monthly, StartDate: today.AddDate(0, 0, -28).Format(time.DateOnly), NextDate: today.AddDate(0, 0, 2).Format(time.DateOnly), IsActive: true, CreatedAt: now},
		{ID: uuid.NewString(), Description: "Rent - Apartment", Amount: 1500, Category: finance.CategoryHousing, Type: finance.Expense, AccountID: accountIDs["checking"], Frequency: finance.Monthly, StartDate: today.AddDate(0, 0, -24).Format(time.DateOnly), NextDate: today.AddDate(0, 0, 6).Format(time.DateOnly), IsActive: true, CreatedAt: now},
	}

	return finance.SyncData{
		Accounts:          accounts,
		Transactions:      transactions,
		Budgets:           budgets,
		Goals:             goals,
		RecurringPatterns: recurring,
	}
}

// seedDemoData stores a demo snapshot for presentations.
// Idempotent: will only run if there are zero transactions present.
func seedDemoData(ctx context.Context, l *ledger.Ledger, now time.Time) (bool, error) {
	current, err := l.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("checking transactions count: %w", err)
	}
	if len(current.Transactions) > 0 {
		return false, nil
	}
	if err := l.Replace(ctx, demoSnapshot(now)); err != nil {
		return false, fmt.Errorf("seeding demo data: %w", err)
	}
	return true, nil
}
