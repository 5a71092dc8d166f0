package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateService produces USD-normalized conversion rates. Rates are cached for
// a bounded window so conversions stay consistent and the provider is not
// hammered; a provider outage falls back to a configured rate instead of
// blocking entry creation.
type RateService struct {
	cache    Cache
	provider RateProvider
	fallback decimal.Decimal
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewRateService creates a new RateService. fallback must be positive.
func NewRateService(cache Cache, provider RateProvider, fallback decimal.Decimal, ttl time.Duration, logger zerolog.Logger) *RateService {
	return &RateService{
		cache:    cache,
		provider: provider,
		fallback: fallback,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetCurrentRate returns the base->quote rate: cached if fresh, otherwise
// fetched from the provider. Provider failures are logged and recovered with
// the fallback rate; the caller never sees an error.
func (s *RateService) GetCurrentRate(ctx context.Context, base, quote string) decimal.Decimal {
	key := "rate:" + base + ":" + quote

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if rate, err := decimal.NewFromString(string(cached)); err == nil && rate.IsPositive() {
			return rate
		}
	}

	rate, err := s.provider.FetchRate(ctx, base, quote)
	if err != nil || !rate.IsPositive() {
		s.logger.Warn().
			Err(err).
			Str("base", base).
			Str("quote", quote).
			Str("fallback", s.fallback.String()).
			Msg("rate provider failed, using fallback rate")

		return s.fallback
	}

	if err := s.cache.Set(ctx, key, []byte(rate.String()), s.ttl); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("failed to cache rate")
	}

	return rate
}

// Convert divides a local-currency amount by rate, rounded to two decimal
// places. Pure; rate must be positive, guaranteed by GetCurrentRate.
func Convert(amountLocal, rate decimal.Decimal) decimal.Decimal {
	return amountLocal.DivRound(rate, 2)
}
