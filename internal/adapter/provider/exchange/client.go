package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payouts/internal/domain"
)

// Client fetches exchange rates from an external HTTP provider. The provider
// is expected to answer GET <base URL>?base=<CUR> with a JSON body of the
// form {"rates": {"USD": 30.12}}.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new exchange rate client. The timeout bounds the whole
// request; entry creation must not hang on a slow provider.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRate retrieves the base->quote exchange rate.
func (c *Client) FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	u := c.baseURL + "?base=" + url.QueryEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: provider returned %d", domain.ErrRateUnavailable, resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	rate, ok := body.Rates[quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no %s rate in response", domain.ErrRateUnavailable, quote)
	}

	return rate, nil
}
