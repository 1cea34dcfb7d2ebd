// Package resolver turns a free-form destination input into a ledger
// account ID. Two shapes are recognized: a raw account ID (strkey-encoded
// ed25519 public key) and a federation address of the form name*domain.
//
// Federation lookups are re-attempted for every distinct input string since
// federation records can change upstream; only the per-domain stellar.toml
// descriptor is cached.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stellar/go/strkey"
	"go.uber.org/zap"

	"github.com/photon-wallet/photon/cache"
	"github.com/photon-wallet/photon/common"
)

// MemoType is the memo shape a federation record mandates.
type MemoType string

const (
	MemoID   MemoType = "id"
	MemoText MemoType = "text"
)

// MandatedMemo is a memo the federation record forces onto the payment.
// Both type and value are non-negotiable once present.
type MandatedMemo struct {
	Type  MemoType
	Value string
}

// DestinationResolution is the immutable outcome of resolving one
// destination input string.
type DestinationResolution struct {
	AccountID    string
	MandatedMemo *MandatedMemo
}

// Resolver resolves destination inputs. The stellar.toml descriptor of each
// domain is resolved at most once per Resolver lifetime through the
// injected resolution cache.
type Resolver struct {
	client  *http.Client
	tomls   *cache.ResolutionCache[string, federationDescriptor]
	logger  *zap.Logger
	scheme  string
	timeout time.Duration
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: 15 * time.Second},
		tomls:   cache.NewResolutionCache[string, federationDescriptor](),
		logger:  logger,
		scheme:  "https",
		timeout: 15 * time.Second,
	}
}

// NewResolverWithClient is used by tests to point the resolver at a local
// server over plain http.
func NewResolverWithClient(logger *zap.Logger, client *http.Client, scheme string) *Resolver {
	r := NewResolver(logger)
	r.client = client
	r.scheme = scheme
	return r
}

// IsAccountID reports whether s is a structurally valid strkey account ID.
func IsAccountID(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// IsFederationAddress reports whether s looks like name*domain.
func IsFederationAddress(s string) bool {
	parts := strings.Split(s, "*")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// Resolve maps input to a DestinationResolution.
//
//   - raw account ID: validated and returned as-is, no network I/O
//   - name*domain: the domain descriptor and federation endpoint are queried
//   - anything else: InvalidDestinationError
//
// Resolving the same input twice yields the same result; it is the caller's
// job to drop results whose input has been superseded in the meantime.
func (r *Resolver) Resolve(ctx context.Context, input string) (*DestinationResolution, error) {
	input = strings.TrimSpace(input)

	if IsAccountID(input) {
		return &DestinationResolution{AccountID: input}, nil
	}

	if !IsFederationAddress(input) {
		return nil, &common.InvalidDestinationError{Input: input}
	}

	parts := strings.Split(input, "*")
	name, domain := parts[0], parts[1]

	desc, err := r.resolveDescriptor(ctx, domain)
	if err != nil {
		return nil, &common.FederationLookupError{Address: input, Reason: err}
	}

	record, err := r.queryFederation(ctx, desc, input)
	if err != nil {
		return nil, &common.FederationLookupError{Address: input, Reason: err}
	}

	if !IsAccountID(record.AccountID) {
		return nil, &common.FederationLookupError{
			Address: input,
			Reason:  fmt.Errorf("federation server of %s returned invalid account ID %q for %q", domain, record.AccountID, name),
		}
	}

	resolution := &DestinationResolution{AccountID: record.AccountID}
	if record.Memo != "" && record.MemoType != "" {
		memoType := MemoID
		if strings.Contains(strings.ToLower(record.MemoType), "text") {
			memoType = MemoText
		}
		resolution.MandatedMemo = &MandatedMemo{Type: memoType, Value: record.Memo}
	}

	r.logger.Debug("destination resolved via federation",
		zap.String("address", input),
		zap.String("account_id", record.AccountID),
		zap.Bool("mandated_memo", resolution.MandatedMemo != nil),
	)
	return resolution, nil
}

type federationDescriptor struct {
	FederationServer string `toml:"FEDERATION_SERVER"`
}

func (r *Resolver) resolveDescriptor(ctx context.Context, domain string) (federationDescriptor, error) {
	return r.tomls.Resolve(ctx, domain, func(ctx context.Context) (federationDescriptor, error) {
		return r.fetchDescriptor(ctx, domain)
	})
}

type federationRecord struct {
	AccountID string `json:"account_id"`
	Memo      string `json:"memo"`
	MemoType  string `json:"memo_type"`
}

func (r *Resolver) queryFederation(ctx context.Context, desc federationDescriptor, address string) (*federationRecord, error) {
	endpoint, err := url.Parse(desc.FederationServer)
	if err != nil {
		return nil, fmt.Errorf("federation server URL %q is malformed: %w", desc.FederationServer, err)
	}
	q := endpoint.Query()
	q.Set("q", address)
	q.Set("type", "name")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
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
	record := federationRecord{}
	if err = json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal federation response %s: %w", string(body), err)
	}
	if record.AccountID == "" {
		return nil, fmt.Errorf("no federation record for %q", address)
	}
	return &record, nil
}
