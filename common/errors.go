package common

import (
	"fmt"
)

// InvalidDestinationError means the destination input is neither a valid
// account ID nor a federation address. It is never retried; the user has
// to correct the input.
type InvalidDestinationError struct {
	Input string
}

func (e *InvalidDestinationError) Error() string {
	return fmt.Sprintf("invalid destination %q: not an account ID nor a name*domain address", e.Input)
}

// FederationLookupError means the federation descriptor or the federation
// endpoint could not deliver a record for the requested name. Transient,
// safe to retry on the next user-triggered resolution.
type FederationLookupError struct {
	Address string
	Reason  error
}

func (e *FederationLookupError) Error() string {
	return fmt.Sprintf("federation lookup for %q failed: %s", e.Address, e.Reason)
}

func (e *FederationLookupError) Unwrap() error {
	return e.Reason
}

// BadResponseError is returned for any HTTP response with status >= 400,
// carrying the status and the server it came from.
type BadResponseError struct {
	Status int
	Server string
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf("bad response (%d) from %s server", e.Status, e.Server)
}

// ValidationError reports an amount or memo constraint violation. The
// transaction is never built when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DirectoryLookupFailure is soft: callers proceed as if the account has no
// directory record. It only exists so the failure can be reported instead
// of silently swallowed.
type DirectoryLookupFailure struct {
	AccountID string
	Reason    error
}

func (e *DirectoryLookupFailure) Error() string {
	return fmt.Sprintf("directory lookup for %s failed: %s", e.AccountID, e.Reason)
}

func (e *DirectoryLookupFailure) Unwrap() error {
	return e.Reason
}
