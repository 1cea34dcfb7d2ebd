package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/networks"
)

// Offer is one price level of an order book side.
type Offer struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// OrderBookSnapshot is a point-in-time view of the (Selling, Buying) book.
// Bids are ordered best-price-first. The snapshot is read-only: estimators
// never mutate it.
type OrderBookSnapshot struct {
	Selling common.Asset
	Buying  common.Asset
	Bids    []Offer
}

// BestBid returns the highest bid price, or false when the book is empty.
func (s *OrderBookSnapshot) BestBid() (decimal.Decimal, bool) {
	if s == nil || len(s.Bids) == 0 {
		return decimal.Zero, false
	}
	return s.Bids[0].Price, true
}

// BookSource yields order-book snapshots for an asset pair. The engine only
// consumes snapshots; where they come from (Horizon polling, a streaming
// feed, test fixtures) is the source's business.
type BookSource interface {
	OrderBook(ctx context.Context, selling, buying common.Asset) (*OrderBookSnapshot, error)
}

// HorizonBooks fetches snapshots from Horizon's /order_book endpoint.
type HorizonBooks struct {
	network networks.Network
	client  *http.Client
}

func NewHorizonBooks(network networks.Network) *HorizonBooks {
	return &HorizonBooks{
		network: network,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewHorizonBooksWithClient is used by tests to point the source at a local
// server.
func NewHorizonBooksWithClient(network networks.Network, client *http.Client) *HorizonBooks {
	return &HorizonBooks{network: network, client: client}
}

func assetParams(q url.Values, prefix string, asset common.Asset) {
	if asset.IsNative() {
		q.Set(prefix+"_asset_type", "native")
		return
	}
	assetType := "credit_alphanum4"
	if len(asset.Code) > 4 {
		assetType = "credit_alphanum12"
	}
	q.Set(prefix+"_asset_type", assetType)
	q.Set(prefix+"_asset_code", asset.Code)
	q.Set(prefix+"_asset_issuer", asset.Issuer)
}

func (h *HorizonBooks) OrderBook(ctx context.Context, selling, buying common.Asset) (*OrderBookSnapshot, error) {
	endpoint, err := url.Parse(h.network.GetHorizonURL() + "/order_book")
	if err != nil {
		return nil, err
	}
	q := endpoint.Query()
	assetParams(q, "selling", selling)
	assetParams(q, "buying", buying)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &common.BadResponseError{Status: resp.StatusCode, Server: endpoint.Host}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// price and amount arrive as decimal strings and stay decimal
	var parsed struct {
		Bids []struct {
			Price  string `json:"price"`
			Amount string `json:"amount"`
		} `json:"bids"`
	}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal order book response %s: %w", string(body), err)
	}

	snapshot := &OrderBookSnapshot{Selling: selling, Buying: buying}
	for _, bid := range parsed.Bids {
		price, err := decimal.NewFromString(bid.Price)
		if err != nil {
			return nil, fmt.Errorf("bid price %q is not a decimal: %w", bid.Price, err)
		}
		volume, err := decimal.NewFromString(bid.Amount)
		if err != nil {
			return nil, fmt.Errorf("bid amount %q is not a decimal: %w", bid.Amount, err)
		}
		snapshot.Bids = append(snapshot.Bids, Offer{Price: price, Volume: volume})
	}
	return snapshot, nil
}
