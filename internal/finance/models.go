package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TransactionType tags a transaction as money in or money out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known tags.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction represents a single ledger entry.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Date        string          `json:"date"` // ISO-8601, usually YYYY-MM-DD
	Type        TransactionType `json:"type"`
	IsRecurring bool            `json:"isRecurring"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate checks the fields a caller must supply when creating a transaction.
func (t Transaction) Validate() error {
	var errs []error
	if strings.TrimSpace(t.AccountID) == "" {
		errs = append(errs, errors.New("account id is required"))
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if !t.Type.Valid() {
		errs = append(errs, fmt.Errorf("invalid type %q: must be income or expense", t.Type))
	}
	if _, err := ParseDate(t.Date); err != nil {
		errs = append(errs, fmt.Errorf("invalid date %q", t.Date))
	}
	return errors.Join(errs...)
}

// AccountType classifies an account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

// Account represents a bank, card or cash account.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Balance   float64     `json:"balance"`
	Currency  string      `json:"currency"`
	Color     string      `json:"color,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// BudgetPeriod is the window a budget limit applies to.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// Budget caps spending for one category over a period.
type Budget struct {
	ID        string       `json:"id"`
	Category  Category     `json:"category"`
	Amount    float64      `json:"amount"`
	Period    BudgetPeriod `json:"period"`
	StartDate string       `json:"startDate"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Goal is a savings target.
type Goal struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Deadline      string    `json:"deadline,omitempty"`
	Color         string    `json:"color,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Frequency is how often a recurring pattern repeats.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// RecurringPattern describes a repeating series of transactions.
type RecurringPattern struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    Category        `json:"category"`
	Type        TransactionType `json:"type"`
	AccountID   string          `json:"accountId"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   string          `json:"startDate"`
	NextDate    string          `json:"nextDate,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SyncData is the full snapshot exchanged with the cloud in one upload or download.
type SyncData struct {
	Accounts          []Account          `json:"accounts"`
	Transactions      []Transaction      `json:"transactions"`
	Budgets           []Budget           `json:"budgets"`
	Goals             []Goal             `json:"goals"`
	RecurringPatterns []RecurringPattern `json:"recurringPatterns"`
	SyncedAt          *time.Time         `json:"syncedAt,omitempty"`
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (d *SyncData) Normalize() {
	if d.Accounts == nil {
		d.Accounts = []Account{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Budgets == nil {
		d.Budgets = []Budget{}
	}
	if d.Goals == nil {
		d.Goals = []Goal{}
	}
	if d.RecurringPatterns == nil {
		d.RecurringPatterns = []RecurringPattern{}
	}
}

// SyncConfig is the locally persisted cloud sync state.
type SyncConfig struct {
	Enabled    bool       `json:"enabled"`
	LastSyncAt *time.Time `json:"lastSyncAt"`
}
