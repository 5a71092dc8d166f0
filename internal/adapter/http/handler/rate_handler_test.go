package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payouts/internal/usecase"
)

type fixedRateProvider struct {
	rates map[string]decimal.Decimal
}

func (p fixedRateProvider) FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	rate, ok := p.rates[base+"/"+quote]
	if !ok {
		return decimal.Zero, errors.New("no quote")
	}
	return rate, nil
}

type missCache struct{}

func (missCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("cache miss")
}

func (missCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (missCache) Delete(ctx context.Context, key string) error {
	return nil
}

func newRateHandler(t *testing.T, rates map[string]decimal.Decimal) *RateHandler {
	t.Helper()

	svc := usecase.NewRateService(
		missCache{},
		fixedRateProvider{rates: rates},
		decimal.NewFromInt(30),
		time.Hour,
		zerolog.Nop(),
	)

	return NewRateHandler(svc, "TRY", "USD")
}

type ratePayload struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Rate  decimal.Decimal `json:"rate"`
}

func TestRateHandler_Get_DefaultPair(t *testing.T) {
	h := newRateHandler(t, map[string]decimal.Decimal{
		"TRY/USD": decimal.RequireFromString("41.25"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ratePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "TRY", resp.Base)
	assert.Equal(t, "USD", resp.Quote)
	assert.True(t, resp.Rate.Equal(decimal.RequireFromString("41.25")), "rate = %s", resp.Rate)
}

func TestRateHandler_Get_QueryParamsOverridePair(t *testing.T) {
	h := newRateHandler(t, map[string]decimal.Decimal{
		"EUR/USD": decimal.RequireFromString("1.08"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates?base=eur&quote=usd", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ratePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "EUR", resp.Base, "base should be uppercased")
	assert.Equal(t, "USD", resp.Quote)
	assert.True(t, resp.Rate.Equal(decimal.RequireFromString("1.08")), "rate = %s", resp.Rate)
}

func TestRateHandler_Get_ProviderDownServesFallback(t *testing.T) {
	h := newRateHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "provider outage must not surface")

	var resp ratePayload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Rate.Equal(decimal.NewFromInt(30)), "rate = %s, want fallback 30", resp.Rate)
}
