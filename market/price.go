// Package market maintains the reference price of the native asset and
// derives fiat/asset estimates from it and from order-book snapshots.
//
// All monetary arithmetic is decimal (shopspring/decimal); wire values are
// parsed from their decimal-string representation directly, never through
// binary floating point. A missing price or an empty book yields a zero
// estimate; downstream code treats zero as "unknown", not as a price.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/networks"
)

// Quote is the reference price of one native-asset unit in a fiat currency.
// Superseded quotes are replaced wholesale, never merged.
type Quote struct {
	Price      decimal.Decimal
	ObservedAt time.Time
}

// Feed fetches reference quotes from the network's price endpoint
// (quotes/latest?symbol=XLM&convert=CCY).
type Feed struct {
	network networks.Network
	client  *http.Client
}

func NewFeed(network networks.Network) *Feed {
	return &Feed{
		network: network,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewFeedWithClient is used by tests to point the feed at a local server.
func NewFeedWithClient(network networks.Network, client *http.Client) *Feed {
	return &Feed{network: network, client: client}
}

func (f *Feed) FetchQuote(ctx context.Context, currency common.CurrencyCode) (Quote, error) {
	symbol := f.network.GetNativeAssetSymbol()
	requestURL := fmt.Sprintf(
		"%s?symbol=%s&convert=%s",
		f.network.GetPriceFeedURL(), symbol, url.QueryEscape(string(currency)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Quote{}, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		host := "price feed"
		if u, err := url.Parse(f.network.GetPriceFeedURL()); err == nil {
			host = u.Host
		}
		return Quote{}, &common.BadResponseError{Status: resp.StatusCode, Server: host}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}

	// data.<SYMBOL>.quote.<CCY>.price, parsed as a decimal string via
	// json.Number so the value never passes through a float64
	var parsed struct {
		Data map[string]struct {
			Quote map[string]struct {
				Price json.Number `json:"price"`
			} `json:"quote"`
		} `json:"data"`
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err = decoder.Decode(&parsed); err != nil {
		return Quote{}, fmt.Errorf("couldn't unmarshal price feed response %s: %w", string(body), err)
	}

	sym, found := parsed.Data[symbol]
	if !found {
		return Quote{}, fmt.Errorf("price feed response has no data for %s", symbol)
	}
	q, found := sym.Quote[string(currency)]
	if !found {
		return Quote{}, fmt.Errorf("price feed response has no %s quote", currency)
	}
	price, err := decimal.NewFromString(q.Price.String())
	if err != nil {
		return Quote{}, fmt.Errorf("price %q is not a decimal: %w", q.Price, err)
	}
	return Quote{Price: price, ObservedAt: time.Now()}, nil
}

// Valuation holds the latest reference quote for one (currency, network)
// pair and keeps it fresh on a recurring timer until its context ends.
type Valuation struct {
	feed     *Feed
	currency common.CurrencyCode
	logger   *zap.Logger

	mu    sync.Mutex
	quote Quote
}

func NewValuation(feed *Feed, currency common.CurrencyCode, logger *zap.Logger) *Valuation {
	return &Valuation{feed: feed, currency: currency, logger: logger}
}

// Run fetches the quote immediately and then refreshes it on the network's
// refresh interval until ctx is cancelled. Fetch failures keep the previous
// quote; the engine degrades to zero only when no quote was ever obtained.
func (v *Valuation) Run(ctx context.Context) {
	v.logRefresh(ctx)

	ticker := time.NewTicker(v.feed.network.GetPriceRefreshInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.logRefresh(ctx)
		}
	}
}

// Refresh fetches a fresh quote once. On failure the previous quote stays
// in place.
func (v *Valuation) Refresh(ctx context.Context) error {
	quote, err := v.feed.FetchQuote(ctx, v.currency)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.quote = quote
	v.mu.Unlock()
	return nil
}

func (v *Valuation) logRefresh(ctx context.Context) {
	if err := v.Refresh(ctx); err != nil {
		v.logger.Warn("reference price refresh failed, keeping previous quote",
			zap.String("currency", string(v.currency)),
			zap.Error(err),
		)
	}
}

// Currency returns the fiat currency this valuation quotes in.
func (v *Valuation) Currency() common.CurrencyCode {
	return v.currency
}

// ReferencePrice returns the latest native-asset price in the valuation
// currency, or zero when no quote is known yet.
func (v *Valuation) ReferencePrice() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.quote.Price
}
