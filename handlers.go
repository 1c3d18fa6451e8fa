package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keithsimkin/moneymanager-sub001/internal/auth"
	"github.com/keithsimkin/moneymanager-sub001/internal/filter"
	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/ledger"
	"github.com/keithsimkin/moneymanager-sub001/internal/summary"
)

const defaultAnalyticsDays = 30

// requestContext returns the request context carrying the caller's bearer
// token, if any, for the auth client to pick up.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
		ctx = auth.WithAccessToken(ctx, strings.TrimSpace(token))
	}
	return ctx
}

// healthCheck handles the health check endpoint
func (a *app) healthCheck(c *gin.Context) {
	status := healthStatus{
		Service:    "cashflow",
		LocalStore: string(a.localKind),
		CloudSync:  a.sync.Configured(),
	}
	if err := a.local.Ping(c.Request.Context()); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
		c.JSON(http.StatusInternalServerError, status)
		return
	}
	status.Status = "healthy"
	c.JSON(http.StatusOK, status)
}

// getTransactions lists stored transactions matching the query filters,
// newest first.
func (a *app) getTransactions(c *gin.Context) {
	opts, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := a.ledger.Transactions(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// addTransaction creates a new transaction
func (a *app) addTransaction(c *gin.Context) {
	var t finance.Transaction
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := a.ledger.AddTransaction(c.Request.Context(), t)
	if errors.Is(err, ledger.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// deleteTransaction removes a transaction by ID
func (a *app) deleteTransaction(c *gin.Context) {
	err := a.ledger.DeleteTransaction(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ledger.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// getCategories lists the built-in categories.
func (a *app) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, finance.Categories())
}

// getAnalytics summarizes transactions in a window (the last 30 days unless
// startDate or days says otherwise; days=0 means all time) plus budget and
// goal progress.
func (a *app) getAnalytics(c *gin.Context) {
	opts, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days := defaultAnalyticsDays
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days: must be a non-negative integer"})
			return
		}
	}

	now := a.now()
	if opts.StartDate == nil && days > 0 {
		from := now.AddDate(0, 0, -days).Format(time.DateOnly)
		opts.StartDate = &from
	}

	data, err := a.ledger.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	transactions := filter.Apply(data.Transactions, opts)

	analytics := Analytics{
		Summary:    summary.ComputeTotals(transactions),
		ByCategory: summary.ByCategory(transactions),
		Budgets:    make([]summary.BudgetStatus, 0, len(data.Budgets)),
		Goals:      make([]summary.GoalStatus, 0, len(data.Goals)),
	}
	if opts.StartDate != nil {
		analytics.From = *opts.StartDate
	}
	if opts.EndDate != nil {
		analytics.To = *opts.EndDate
	}
	for _, b := range data.Budgets {
		analytics.Budgets = append(analytics.Budgets, summary.BudgetProgress(b, data.Transactions, now))
	}
	for _, g := range data.Goals {
		analytics.Goals = append(analytics.Goals, summary.GoalProgress(g))
	}

	c.JSON(http.StatusOK, analytics)
}

// getSnapshot returns the whole local state.
func (a *app) getSnapshot(c *gin.Context) {
	data, err := a.ledger.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// putSnapshot replaces the whole local state.
func (a *app) putSnapshot(c *gin.Context) {
	var data finance.SyncData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.ledger.Replace(c.Request.Context(), data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	data.Normalize()
	c.JSON(http.StatusOK, data)
}

func (a *app) getSyncConfig(c *gin.Context) {
	c.JSON(http.StatusOK, a.sync.Config(c.Request.Context()))
}

func (a *app) putSyncConfig(c *gin.Context) {
	var req syncConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	cfg := a.sync.Config(ctx)
	cfg.Enabled = *req.Enabled
	if err := a.sync.SaveConfig(ctx, cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Sync endpoints answer 200 with the outcome in the body.

func (a *app) getSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, a.sync.CheckConnection(requestContext(c)))
}

func (a *app) postSyncUpload(c *gin.Context) {
	ctx := requestContext(c)
	data, err := a.ledger.Snapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.sync.Upload(ctx, data))
}

// postSyncDownload fetches the cloud copy and, on success, makes it the
// local state.
func (a *app) postSyncDownload(c *gin.Context) {
	ctx := requestContext(c)
	res := a.sync.Download(ctx)
	if res.Success {
		if err := a.ledger.Replace(ctx, *res.Data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, res)
}
