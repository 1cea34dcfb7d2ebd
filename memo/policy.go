// Package memo decides whether a payment memo is mandatory and whether its
// type and value are still the user's to choose.
package memo

import (
	"github.com/photon-wallet/photon/directory"
	"github.com/photon-wallet/photon/resolver"
)

// Requirement is the memo policy state. Transitions happen synchronously
// whenever the destination resolution or its directory record changes.
type Requirement int

const (
	// Optional: no upstream party demands a memo.
	Optional Requirement = iota
	// RequiredByDirectory: the destination's directory record carries the
	// memo-required tag. The user must provide a value; type and value are
	// theirs to pick.
	RequiredByDirectory
	// ForcedByFederation: the federation record mandates type and value.
	// Neither is editable. Takes precedence over RequiredByDirectory.
	ForcedByFederation
)

func (r Requirement) String() string {
	switch r {
	case RequiredByDirectory:
		return "required by directory"
	case ForcedByFederation:
		return "forced by federation"
	default:
		return "optional"
	}
}

// Decision is the current memo policy outcome.
type Decision struct {
	Requirement Requirement

	// Type and Value are set only when ForcedByFederation.
	Type  resolver.MemoType
	Value string

	// Editable reports whether the user may still change the memo.
	Editable bool
}

// Required reports whether submitting without a memo value is a validation
// error.
func (d Decision) Required() bool {
	return d.Requirement != Optional
}

// Policy tracks the latest resolution and directory inputs and derives the
// Decision from them. It has no timers and no goroutines; it reacts to
// whatever the caller feeds it.
type Policy struct {
	resolution *resolver.DestinationResolution
	record     *directory.Record
}

func NewPolicy() *Policy {
	return &Policy{}
}

// OnResolution replaces the destination resolution. Pass nil when the
// destination became unresolved (input cleared or changed).
func (p *Policy) OnResolution(res *resolver.DestinationResolution) {
	p.resolution = res
}

// OnDirectoryRecord replaces the directory record. Pass nil for unlisted
// destinations.
func (p *Policy) OnDirectoryRecord(rec *directory.Record) {
	p.record = rec
}

// Decision derives the current memo policy. Federation-mandated memos win
// over directory-mandated ones when both apply.
func (p *Policy) Decision() Decision {
	if p.resolution != nil && p.resolution.MandatedMemo != nil {
		return Decision{
			Requirement: ForcedByFederation,
			Type:        p.resolution.MandatedMemo.Type,
			Value:       p.resolution.MandatedMemo.Value,
			Editable:    false,
		}
	}
	if p.record.HasTag(directory.MemoRequiredTag) {
		return Decision{
			Requirement: RequiredByDirectory,
			Editable:    true,
		}
	}
	return Decision{Requirement: Optional, Editable: true}
}
