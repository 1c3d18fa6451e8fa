package filter

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

func ptr[T any](v T) *T { return &v }

func sample() []finance.Transaction {
	return []finance.Transaction{
		{ID: "1", AccountID: "checking", Amount: 3200, Description: "Monthly Salary", Category: finance.CategorySalary, Date: "2024-01-01", Type: finance.Income},
		{ID: "2", AccountID: "checking", Amount: 96.72, Description: "Whole Foods", Category: finance.CategoryFood, Date: "2024-01-03", Type: finance.Expense},
		{ID: "3", AccountID: "credit", Amount: 45, Description: "Subway pass", Category: finance.CategoryTransport, Date: "2024-01-05", Type: finance.Expense, IsRecurring: true},
		{ID: "4", AccountID: "savings", Amount: 850, Description: "Landing page", Category: finance.CategoryFreelance, Date: "2024-01-07", Type: finance.Income},
		{ID: "5", AccountID: "credit", Amount: 140, Description: "Concert tickets", Category: finance.CategoryEntertainment, Date: "2024-01-09", Type: finance.Expense},
	}
}

func ids(txs []finance.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyEmptyOptionsIsIdentity(t *testing.T) {
	txs := sample()
	got := Apply(txs, Options{})
	assert.Equal(t, txs, got)
	assert.True(t, Options{}.IsZero())

	assert.Empty(t, Apply(nil, Options{}))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	txs := sample()
	before := append([]finance.Transaction(nil), txs...)

	got := Apply(txs, Options{Type: ptr(finance.Expense)})
	require.NotEmpty(t, got)
	got[0].Description = "changed"

	assert.Equal(t, before, txs)
}

func TestApplyTypeIsSubset(t *testing.T) {
	txs := sample()
	all := Apply(txs, Options{})
	income := Apply(txs, Options{Type: ptr(finance.Income)})

	assert.Equal(t, []string{"1", "4"}, ids(income))
	for _, tx := range income {
		assert.Equal(t, finance.Income, tx.Type)
		assert.Contains(t, all, tx)
	}
}

func TestApplyInclusiveDateRange(t *testing.T) {
	var txs []finance.Transaction
	for d := 1; d <= 10; d++ {
		txs = append(txs, finance.Transaction{ID: fmt.Sprint(d), Date: fmt.Sprintf("2024-01-%02d", d)})
	}

	got := Apply(txs, Options{StartDate: ptr("2024-01-05"), EndDate: ptr("2024-01-07")})
	assert.Equal(t, []string{"5", "6", "7"}, ids(got))

	got = Apply(txs, Options{StartDate: ptr("2024-01-09")})
	assert.Equal(t, []string{"9", "10"}, ids(got))

	got = Apply(txs, Options{EndDate: ptr("2024-01-02")})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestApplyInvalidDates(t *testing.T) {
	txs := sample()
	txs[0].Date = "not a date"

	assert.Empty(t, Apply(txs, Options{StartDate: ptr("garbage")}), "invalid bound excludes everything")

	got := Apply(txs, Options{StartDate: ptr("2023-12-01")})
	assert.NotContains(t, ids(got), "1", "unparseable transaction date never satisfies a bound")
	assert.Len(t, got, 4)

	assert.Len(t, Apply(txs, Options{}), 5, "no date bound leaves bad dates alone")
}

func TestApplySearch(t *testing.T) {
	txs := sample()

	assert.Equal(t, []string{"2"}, ids(Apply(txs, Options{Search: ptr("WHOLE")})))
	assert.Equal(t, []string{"4"}, ids(Apply(txs, Options{Search: ptr("freelance")})), "matches category")
	assert.Len(t, Apply(txs, Options{Search: ptr("")}), 5)
}

func TestApplyAmountBoundsIgnoreType(t *testing.T) {
	txs := sample()

	got := Apply(txs, Options{MinAmount: ptr(96.72), MaxAmount: ptr(850.0)})
	assert.Equal(t, []string{"2", "4", "5"}, ids(got))

	txs[1].Amount = -500
	got = Apply(txs, Options{MaxAmount: ptr(50.0)})
	assert.Equal(t, []string{"2", "3"}, ids(got), "raw signed amount is compared")
}

func TestApplyAccounts(t *testing.T) {
	txs := sample()

	assert.Equal(t, []string{"3", "5"}, ids(Apply(txs, Options{AccountID: ptr("credit")})))
	assert.Equal(t, []string{"3", "4", "5"}, ids(Apply(txs, Options{AccountIDs: []string{"credit", "savings"}})))

	// Both constraints apply, which can over-constrain.
	got := Apply(txs, Options{AccountID: ptr("checking"), AccountIDs: []string{"credit"}})
	assert.Empty(t, got)
}

func TestApplyCombined(t *testing.T) {
	txs := sample()

	got := Apply(txs, Options{
		Type:        ptr(finance.Expense),
		AccountID:   ptr("credit"),
		IsRecurring: ptr(false),
		Category:    ptr(finance.CategoryEntertainment),
	})
	assert.Equal(t, []string{"5"}, ids(got))

	assert.Equal(t, []string{"3"}, ids(Apply(txs, Options{IsRecurring: ptr(true)})))
}

func TestApplyLargeDataset(t *testing.T) {
	txs := make([]finance.Transaction, 0, 1500)
	for i := 0; i < 1500; i++ {
		typ := finance.Expense
		if i%3 == 0 {
			typ = finance.Income
		}
		txs = append(txs, finance.Transaction{
			ID:     fmt.Sprint(i),
			Amount: float64(i),
			Type:   typ,
			Date:   fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1),
		})
	}

	got := Apply(txs, Options{Type: ptr(finance.Income), MinAmount: ptr(100.0)})
	assert.Len(t, got, 466)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Amount, got[i].Amount, "order preserved")
	}
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		"search":      {"rent"},
		"startDate":   {"2024-01-01"},
		"endDate":     {"2024-01-31"},
		"category":    {"Housing"},
		"type":        {"expense"},
		"accountId":   {"a1"},
		"accountIds":  {"a1,a2", "a3"},
		"minAmount":   {"10.5"},
		"maxAmount":   {"100"},
		"isRecurring": {"true"},
	}

	opts, err := ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "rent", *opts.Search)
	assert.Equal(t, "2024-01-01", *opts.StartDate)
	assert.Equal(t, "2024-01-31", *opts.EndDate)
	assert.Equal(t, finance.CategoryHousing, *opts.Category)
	assert.Equal(t, finance.Expense, *opts.Type)
	assert.Equal(t, "a1", *opts.AccountID)
	assert.Equal(t, []string{"a1", "a2", "a3"}, opts.AccountIDs)
	assert.InDelta(t, 10.5, *opts.MinAmount, 0.0001)
	assert.InDelta(t, 100, *opts.MaxAmount, 0.0001)
	assert.True(t, *opts.IsRecurring)

	empty, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestParseQueryErrors(t *testing.T) {
	for _, q := range []url.Values{
		{"minAmount": {"ten"}},
		{"maxAmount": {"1e"}},
		{"isRecurring": {"maybe"}},
	} {
		_, err := ParseQuery(q)
		assert.Error(t, err, q.Encode())
	}

	opts, err := ParseQuery(url.Values{"startDate": {"31/01/2024"}})
	require.NoError(t, err, "bad dates are filtered, not rejected")
	assert.Equal(t, "31/01/2024", *opts.StartDate)
}

func TestParseQueryUnknownTypeMatchesNothing(t *testing.T) {
	opts, err := ParseQuery(url.Values{"type": {"transfer"}})
	require.NoError(t, err)
	assert.Equal(t, finance.TransactionType("transfer"), *opts.Type)

	txs := []finance.Transaction{
		{ID: "1", Type: finance.Income},
		{ID: "2", Type: finance.Expense},
	}
	assert.Empty(t, Apply(txs, opts))
}
