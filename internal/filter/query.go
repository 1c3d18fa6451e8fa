package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

// ParseQuery decodes filter options from URL query parameters.
// Dates and the type tag are passed through unparsed: a malformed bound
// behaves like any other invalid date and an unknown type matches nothing.
// Malformed numbers and booleans are rejected.
func ParseQuery(q url.Values) (Options, error) {
	var opts Options

	if v := q.Get("search"); v != "" {
		opts.Search = &v
	}
	if v := q.Get("startDate"); v != "" {
		opts.StartDate = &v
	}
	if v := q.Get("endDate"); v != "" {
		opts.EndDate = &v
	}
	if v := q.Get("category"); v != "" {
		c := finance.Category(v)
		opts.Category = &c
	}
	if v := q.Get("type"); v != "" {
		tt := finance.TransactionType(v)
		opts.Type = &tt
	}
	if v := q.Get("accountId"); v != "" {
		opts.AccountID = &v
	}
	for _, raw := range q["accountIds"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.AccountIDs = append(opts.AccountIDs, id)
			}
		}
	}

	var err error
	if opts.MinAmount, err = parseFloat(q, "minAmount"); err != nil {
		return Options{}, err
	}
	if opts.MaxAmount, err = parseFloat(q, "maxAmount"); err != nil {
		return Options{}, err
	}
	if v := q.Get("isRecurring"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid isRecurring %q: must be true or false", v)
		}
		opts.IsRecurring = &b
	}

	return opts, nil
}

func parseFloat(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be a number", key, v)
	}
	return &f, nil
}
