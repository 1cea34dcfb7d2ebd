// Package horizon is the thin read-only boundary to a Horizon server. It
// fetches account snapshots; signing and submission live outside this
// repository.
package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/photon-wallet/photon/balance"
	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/networks"
)

type Client struct {
	network networks.Network
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(network networks.Network, logger *zap.Logger) *Client {
	return &Client{
		network: network,
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}
}

// NewClientWithClient is used by tests to point the client at a local server.
func NewClientWithClient(network networks.Network, logger *zap.Logger, client *http.Client) *Client {
	c := NewClient(network, logger)
	c.client = client
	return c
}

type accountResponse struct {
	AccountID     string `json:"account_id"`
	Sequence      string `json:"sequence"`
	SubentryCount int    `json:"subentry_count"`
	Balances      []struct {
		Balance     string `json:"balance"`
		AssetType   string `json:"asset_type"`
		AssetCode   string `json:"asset_code"`
		AssetIssuer string `json:"asset_issuer"`
	} `json:"balances"`
	Signers []struct {
		Key    string `json:"key"`
		Weight int    `json:"weight"`
	} `json:"signers"`
}

// FetchAccount loads the current snapshot of accountID: sequence number,
// subentry count, signers and all balance lines. Liquidity pool shares are
// not payable and are skipped.
func (c *Client) FetchAccount(ctx context.Context, accountID string) (*balance.AccountSnapshot, error) {
	requestURL := fmt.Sprintf("%s/accounts/%s", c.network.GetHorizonURL(), url.PathEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("account %s does not exist on %s", accountID, c.network.GetName())
	}
	if resp.StatusCode >= 400 {
		host := "horizon"
		if u, err := url.Parse(c.network.GetHorizonURL()); err == nil {
			host = u.Host
		}
		return nil, &common.BadResponseError{Status: resp.StatusCode, Server: host}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	parsed := accountResponse{}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal account response %s: %w", string(body), err)
	}

	sequence, err := strconv.ParseInt(parsed.Sequence, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("account sequence %q is not an integer: %w", parsed.Sequence, err)
	}

	snapshot := &balance.AccountSnapshot{
		AccountID:     parsed.AccountID,
		Sequence:      sequence,
		SubentryCount: parsed.SubentryCount,
	}
	for _, s := range parsed.Signers {
		snapshot.Signers = append(snapshot.Signers, balance.Signer{Key: s.Key, Weight: s.Weight})
	}
	for _, b := range parsed.Balances {
		var asset common.Asset
		switch b.AssetType {
		case "native":
			asset = common.NativeAsset()
		case "credit_alphanum4", "credit_alphanum12":
			asset = common.CreditAsset(b.AssetCode, b.AssetIssuer)
		default:
			continue
		}
		amount, err := decimal.NewFromString(b.Balance)
		if err != nil {
			return nil, fmt.Errorf("balance %q of %s is not a decimal: %w", b.Balance, asset.Symbol(), err)
		}
		snapshot.Balances = append(snapshot.Balances, balance.Line{Asset: asset, Amount: amount})
	}

	c.logger.Debug("account snapshot fetched",
		zap.String("account_id", snapshot.AccountID),
		zap.Int64("sequence", snapshot.Sequence),
		zap.Int("balances", len(snapshot.Balances)),
	)
	return snapshot, nil
}
