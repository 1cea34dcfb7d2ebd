// Package directory looks up reputation metadata for ledger accounts in a
// well-known account directory (stellar.expert style).
//
// Lookups are cached per (network, account ID) for the lifetime of the
// injected resolution cache. A directory outage never blocks a payment:
// the failure is logged and the caller proceeds as if the account were
// unlisted.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/photon-wallet/photon/cache"
	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/networks"
)

// MemoRequiredTag marks accounts (mostly exchanges) that reject deposits
// without a memo.
const MemoRequiredTag = "memo-required"

// Record is the directory's metadata for one account.
type Record struct {
	AccountID   string
	DisplayName string
	Tags        []string
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	if r == nil {
		return false
	}
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type lookupKey struct {
	Network   string
	AccountID string
}

// Lookup resolves account IDs to directory Records. Unlisted accounts
// resolve to nil without error; that outcome is cached too.
type Lookup struct {
	network networks.Network
	client  *http.Client
	records *cache.ResolutionCache[lookupKey, *Record]
	logger  *zap.Logger
}

func NewLookup(network networks.Network, logger *zap.Logger) *Lookup {
	return &Lookup{
		network: network,
		client:  &http.Client{Timeout: 15 * time.Second},
		records: cache.NewResolutionCache[lookupKey, *Record](),
		logger:  logger,
	}
}

// NewLookupWithClient is used by tests to point the lookup at a local server.
func NewLookupWithClient(network networks.Network, logger *zap.Logger, client *http.Client) *Lookup {
	l := NewLookup(network, logger)
	l.client = client
	return l
}

// Lookup returns the directory record for accountID, or nil when the
// account is unlisted or the directory could not be reached. In the latter
// case the failure is logged as a DirectoryLookupFailure and the lookup is
// retried next time (soft failures are never cached).
func (l *Lookup) Lookup(ctx context.Context, accountID string) *Record {
	record, err := l.LookupStrict(ctx, accountID)
	if err != nil {
		l.logger.Warn("directory lookup failed, proceeding without a record",
			zap.String("account_id", accountID),
			zap.Error(&common.DirectoryLookupFailure{AccountID: accountID, Reason: err}),
		)
		return nil
	}
	return record
}

// LookupStrict is Lookup without the soft-failure policy: reachability
// problems surface as errors.
func (l *Lookup) LookupStrict(ctx context.Context, accountID string) (*Record, error) {
	if l.network.GetDirectoryURL() == "" {
		return nil, nil
	}
	key := lookupKey{Network: l.network.GetName(), AccountID: accountID}
	return l.records.Resolve(ctx, key, func(ctx context.Context) (*Record, error) {
		return l.fetch(ctx, accountID)
	})
}

type directoryResponse struct {
	Embedded struct {
		Records []struct {
			Address string   `json:"address"`
			Tags    []string `json:"tags"`
			Name    string   `json:"name"`
		} `json:"records"`
	} `json:"_embedded"`
}

func (l *Lookup) fetch(ctx context.Context, accountID string) (*Record, error) {
	requestURL := fmt.Sprintf("%s?address[]=%s", l.network.GetDirectoryURL(), url.QueryEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		host := "directory"
		if u, err := url.Parse(l.network.GetDirectoryURL()); err == nil {
			host = u.Host
		}
		return nil, &common.BadResponseError{Status: resp.StatusCode, Server: host}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	parsed := directoryResponse{}
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal directory response %s: %w", string(body), err)
	}

	// unlisted accounts are a normal outcome, not an error
	if len(parsed.Embedded.Records) == 0 {
		return nil, nil
	}
	first := parsed.Embedded.Records[0]
	return &Record{
		AccountID:   first.Address,
		DisplayName: first.Name,
		Tags:        first.Tags,
	}, nil
}
