package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"geniehr/internal/domain/batch"
)

// RatesFile is the on-disk quote source: a base currency, spot rates per
// currency, a flat conversion fee and the provider's quoted variance.
type RatesFile struct {
	Provider    string             `json:"provider"`
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	FeePct      float64            `json:"feePct"`
	VarianceBps int                `json:"varianceBps"`
}

// Provider serves FX quotes with a TTL cache in front of the rates source
// and a limiter on source reads.
type Provider struct {
	path    string
	lockTTL time.Duration
	cache   *gocache.Cache
	limiter *rate.Limiter

	mu    sync.RWMutex
	rates RatesFile
}

func New(path string, quoteTTL, lockTTL time.Duration) *Provider {
	return &Provider{
		path:    path,
		lockTTL: lockTTL,
		cache:   gocache.New(quoteTTL, 2*quoteTTL),
		// One source read per second, small burst; quotes are cached anyway.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Load reads the rates file once at startup.
func (p *Provider) Load() error {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("reading fx rates file %s: %w", p.path, err)
	}
	var parsed RatesFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parsing fx rates file %s: %w", p.path, err)
	}
	p.mu.Lock()
	p.rates = parsed
	p.mu.Unlock()
	slog.Info("fx rates loaded", "path", p.path, "provider", parsed.Provider, "currencies", len(parsed.Rates))
	return nil
}

// Quote returns the conversion quote from baseCurrency into currency.
func (p *Provider) Quote(ctx context.Context, baseCurrency, currency string) (batch.FXQuote, error) {
	if currency == baseCurrency {
		return batch.FXQuote{Rate: 1}, nil
	}

	cacheKey := baseCurrency + "/" + currency
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.(batch.FXQuote), nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return batch.FXQuote{}, err
	}

	p.mu.RLock()
	rates := p.rates
	p.mu.RUnlock()

	if rates.Base != baseCurrency {
		return batch.FXQuote{}, fmt.Errorf("no quotes from base %s (source base is %s)", baseCurrency, rates.Base)
	}
	spot, ok := rates.Rates[currency]
	if !ok {
		return batch.FXQuote{}, fmt.Errorf("no rate for %s", currency)
	}

	quote := batch.FXQuote{Rate: spot, FeePct: rates.FeePct}
	p.cache.Set(cacheKey, quote, gocache.DefaultExpiration)
	return quote, nil
}

// LockQuote captures a snapshot over the given currencies. LockedUntil is
// advisory only: no re-fetch or invalidation is tied to its passing, since
// the product has not defined an expiry consequence.
func (p *Provider) LockQuote(ctx context.Context, baseCurrency string, currencies []string) (batch.FXSnapshot, error) {
	quotes := map[string]batch.FXQuote{}
	for _, currency := range currencies {
		quote, err := p.Quote(ctx, baseCurrency, currency)
		if err != nil {
			return batch.FXSnapshot{}, err
		}
		quotes[currency] = quote
	}

	p.mu.RLock()
	provider := p.rates.Provider
	varianceBps := p.rates.VarianceBps
	p.mu.RUnlock()

	now := time.Now().UTC()
	until := now.Add(p.lockTTL)
	return batch.FXSnapshot{
		Provider:     provider,
		BaseCurrency: baseCurrency,
		Quotes:       quotes,
		LockedAt:     &now,
		LockedUntil:  &until,
		VarianceBps:  varianceBps,
	}, nil
}
