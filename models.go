package main

import (
	"github.com/keithsimkin/moneymanager-sub001/internal/summary"
)

// Analytics is the dashboard overview for a date window.
type Analytics struct {
	From       string                  `json:"from,omitempty"`
	To         string                  `json:"to,omitempty"`
	Summary    summary.Totals          `json:"summary"`
	ByCategory []summary.CategoryTotal `json:"byCategory"`
	Budgets    []summary.BudgetStatus  `json:"budgets"`
	Goals      []summary.GoalStatus    `json:"goals"`
}

// healthStatus is the /health response body.
type healthStatus struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	LocalStore string `json:"localStore,omitempty"`
	CloudSync  bool   `json:"cloudSync"`
	Error      string `json:"error,omitempty"`
}

// syncConfigRequest is the body of PUT /api/sync/config. Only the toggle is
// writable; lastSyncAt is owned by uploads.
type syncConfigRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
