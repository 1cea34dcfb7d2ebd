// Package engine wires destination resolution, directory lookup, memo
// policy, valuation and balance math into the payment flow: review what the
// user typed, keep the derived trust signals fresh, and assemble the final
// unsigned transaction.
//
// The engine owns its caches and derived computations; the caller owns the
// mutable payment intent and re-invokes the engine on every relevant change.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"

	"github.com/photon-wallet/photon/balance"
	"github.com/photon-wallet/photon/cache"
	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/directory"
	"github.com/photon-wallet/photon/market"
	"github.com/photon-wallet/photon/memo"
	"github.com/photon-wallet/photon/networks"
	"github.com/photon-wallet/photon/resolver"
	"github.com/photon-wallet/photon/txbuilder"
)

// ErrSuperseded is returned by ReviewDestination when the input changed
// while the lookup was in flight. The result was discarded; whoever issued
// the newer input gets the authoritative answer.
var ErrSuperseded = fmt.Errorf("destination input superseded while resolving")

// PaymentIntent is the caller-owned working state of one payment. The
// engine reads it per call and never retains it.
type PaymentIntent struct {
	DestinationInput string
	Asset            common.Asset

	// AmountCurrency, when non-empty, means Amount is typed in that fiat
	// currency and must be converted to Asset before assembly. Currency is
	// display-only: the transfer always moves Asset.
	AmountCurrency common.CurrencyCode
	Amount         decimal.Decimal

	MemoType  string
	MemoValue string

	// Timeout bounds the envelope's validity in seconds; 0 uses the
	// assembler default.
	Timeout int64
}

// DestinationReview bundles everything the user needs to trust a
// destination before sending: the resolution, the directory record (nil for
// unlisted accounts) and the memo decision derived from both.
type DestinationReview struct {
	Input      string
	Resolution *resolver.DestinationResolution
	Record     *directory.Record
	Memo       memo.Decision
}

type destinationState struct {
	input      string
	resolution *resolver.DestinationResolution
	record     *directory.Record
}

// Engine coordinates the payment flow for one network scope.
type Engine struct {
	network   networks.Network
	resolver  *resolver.Resolver
	directory *directory.Lookup
	valuation *market.Valuation
	books     market.BookSource
	policy    *memo.Policy
	destSlot  *cache.Slot[destinationState]
	logger    *zap.Logger
}

func New(network networks.Network, currency common.CurrencyCode, logger *zap.Logger) *Engine {
	return &Engine{
		network:   network,
		resolver:  resolver.NewResolver(logger),
		directory: directory.NewLookup(network, logger),
		valuation: market.NewValuation(market.NewFeed(network), currency, logger),
		books:     market.NewHorizonBooks(network),
		policy:    memo.NewPolicy(),
		destSlot:  cache.NewSlot[destinationState](),
		logger:    logger,
	}
}

// NewWithComponents is used by tests and by callers that substitute their
// own lookup/valuation implementations.
func NewWithComponents(
	network networks.Network,
	res *resolver.Resolver,
	dir *directory.Lookup,
	valuation *market.Valuation,
	books market.BookSource,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		network:   network,
		resolver:  res,
		directory: dir,
		valuation: valuation,
		books:     books,
		policy:    memo.NewPolicy(),
		destSlot:  cache.NewSlot[destinationState](),
		logger:    logger,
	}
}

// Valuation exposes the engine's valuation so the caller can run its
// refresh loop for as long as the engine scope lives:
//
//	go eng.Valuation().Run(ctx)
func (e *Engine) Valuation() *market.Valuation {
	return e.valuation
}

// ReviewDestination resolves input and refreshes the memo policy. Each call
// supersedes all earlier ones: when a slow earlier lookup finishes after a
// newer call, its result is discarded and ErrSuperseded is returned instead
// of stale data.
func (e *Engine) ReviewDestination(ctx context.Context, input string) (*DestinationReview, error) {
	gen := e.destSlot.Begin()
	requestID := uuid.NewString()

	e.logger.Debug("reviewing destination",
		zap.String("request_id", requestID),
		zap.String("input", input),
	)

	resolution, err := e.resolver.Resolve(ctx, input)
	if err != nil {
		// only the latest request may clear the current review state
		if e.destSlot.Invalidate(gen) {
			e.policy.OnResolution(nil)
			e.policy.OnDirectoryRecord(nil)
			return nil, err
		}
		return nil, ErrSuperseded
	}

	record := e.directory.Lookup(ctx, resolution.AccountID)

	state := destinationState{input: input, resolution: resolution, record: record}
	if !e.destSlot.Apply(gen, state) {
		e.logger.Debug("discarding superseded resolution",
			zap.String("request_id", requestID),
			zap.String("input", input),
		)
		return nil, ErrSuperseded
	}

	e.policy.OnResolution(resolution)
	e.policy.OnDirectoryRecord(record)

	return &DestinationReview{
		Input:      input,
		Resolution: resolution,
		Record:     record,
		Memo:       e.policy.Decision(),
	}, nil
}

// CurrentReview returns the review of the newest applied destination
// lookup, if any.
func (e *Engine) CurrentReview() (*DestinationReview, bool) {
	state, ok := e.destSlot.Current()
	if !ok {
		return nil, false
	}
	return &DestinationReview{
		Input:      state.input,
		Resolution: state.resolution,
		Record:     state.record,
		Memo:       e.policy.Decision(),
	}, true
}

func (e *Engine) baseReserve() decimal.Decimal {
	return decimal.RequireFromString(e.network.GetBaseReserve())
}

// SpendableBalance computes how much of asset the account can spend right
// now, net of its reserve requirement.
func (e *Engine) SpendableBalance(account *balance.AccountSnapshot, asset common.Asset) decimal.Decimal {
	reserve := balance.MinimumBalance(account.SubentryCount, e.baseReserve())
	return balance.Spendable(reserve, account.FindLine(asset))
}

// FiatEstimate values one unit of asset in the engine's valuation currency.
// Unknown prices and empty books degrade to a zero estimate, never an
// error. Only the book fetch itself can fail.
func (e *Engine) FiatEstimate(ctx context.Context, asset common.Asset) (market.Estimate, error) {
	if asset.IsNative() {
		return market.FiatEstimate(e.valuation.ReferencePrice(), asset, nil), nil
	}
	book, err := e.books.OrderBook(ctx, asset, common.NativeAsset())
	if err != nil {
		return market.Estimate{}, err
	}
	return market.FiatEstimate(e.valuation.ReferencePrice(), asset, book), nil
}

// EventualAmount converts the intent's amount into the transfer asset. An
// amount already typed in the asset passes through untouched.
func (e *Engine) EventualAmount(ctx context.Context, intent *PaymentIntent) (decimal.Decimal, error) {
	if intent.AmountCurrency == "" {
		return intent.Amount, nil
	}
	var book *market.OrderBookSnapshot
	if !intent.Asset.IsNative() {
		var err error
		book, err = e.books.OrderBook(ctx, common.NativeAsset(), intent.Asset)
		if err != nil {
			return decimal.Zero, err
		}
	}
	estimate := market.AssetEstimate(e.valuation.ReferencePrice(), intent.Asset, book)
	if !estimate.Known() {
		return decimal.Zero, &common.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("no %s exchange rate available for %s", intent.AmountCurrency, intent.Asset.Symbol()),
		}
	}
	return estimate.Convert(intent.Amount), nil
}

// BuildPayment resolves the intent's destination, finalizes the memo
// decision, converts the amount and assembles the unsigned transaction. On
// any validation failure no transaction is produced.
func (e *Engine) BuildPayment(
	ctx context.Context,
	account *balance.AccountSnapshot,
	intent *PaymentIntent,
) (*txnbuild.Transaction, error) {
	resolution, err := e.resolver.Resolve(ctx, intent.DestinationInput)
	if err != nil {
		return nil, err
	}
	record := e.directory.Lookup(ctx, resolution.AccountID)

	policy := memo.NewPolicy()
	policy.OnResolution(resolution)
	policy.OnDirectoryRecord(record)
	decision := policy.Decision()

	memoSpec, err := finalMemo(decision, record, intent.MemoType, intent.MemoValue)
	if err != nil {
		return nil, err
	}

	eventualAmount, err := e.EventualAmount(ctx, intent)
	if err != nil {
		return nil, err
	}

	return txbuilder.Build(txbuilder.Params{
		Source:         account,
		Destination:    resolution.AccountID,
		Asset:          intent.Asset,
		Amount:         eventualAmount,
		Memo:           memoSpec,
		Spendable:      e.SpendableBalance(account, intent.Asset),
		BaseFee:        e.network.GetBaseFee(),
		TimeoutSeconds: intent.Timeout,
	})
}

// finalMemo reconciles the policy decision with the user's memo input.
// Federation-mandated memos replace whatever the user typed; otherwise an
// untyped non-empty memo defaults to text and a required memo must not be
// empty.
func finalMemo(decision memo.Decision, record *directory.Record, memoType, memoValue string) (txbuilder.MemoSpec, error) {
	if decision.Requirement == memo.ForcedByFederation {
		return txbuilder.MemoSpec{Type: string(decision.Type), Value: decision.Value}, nil
	}

	if memoValue != "" && (memoType == "" || memoType == "none") {
		memoType = "text"
	}
	if memoValue == "" {
		if decision.Required() {
			name := "this destination"
			if record != nil && record.DisplayName != "" {
				name = record.DisplayName
			}
			return txbuilder.MemoSpec{}, &common.ValidationError{
				Field:  "memo",
				Reason: fmt.Sprintf("a memo is required when sending to %s", name),
			}
		}
		return txbuilder.MemoNone(), nil
	}
	return txbuilder.MemoSpec{Type: memoType, Value: memoValue}, nil
}
