package loom

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the match target for [NotFoundError]:
	// no producer is registered for the qualifier in the queried context or
	// any of its ancestors.
	ErrNotFound = errors.New("producer not found")

	// ErrSyncRequired is the match target for [SyncRequiredError]:
	// a synchronous-only query hit a still-pending deferred dependency.
	ErrSyncRequired = errors.New("synchronous result required")

	// ErrPassThrough is the match target for [PassThroughError]:
	// a pass-through parameter had no corresponding caller argument.
	ErrPassThrough = errors.New("missing pass-through argument")
)

// NotFoundError names the qualifier that had no registered producer.
type NotFoundError struct {
	Qualifier Qualifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("loom: no producer registered for %s", FormatQualifier(e.Qualifier))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// SyncRequiredError is returned by [Context.GetSync] when the requested
// artifact's construction is still pending.
type SyncRequiredError struct {
	Qualifier Qualifier
}

func (e *SyncRequiredError) Error() string {
	return fmt.Sprintf("loom: %s is still constructing, synchronous result required", FormatQualifier(e.Qualifier))
}

func (e *SyncRequiredError) Unwrap() error { return ErrSyncRequired }

// PassThroughError reports an exhausted pass-through position. Index is
// 1-based and counts pass-through positions, not parameter positions.
type PassThroughError struct {
	Qualifier Qualifier
	Index     int
}

func (e *PassThroughError) Error() string {
	return fmt.Sprintf("loom: no caller argument for pass-through parameter #%d of %s", e.Index, FormatQualifier(e.Qualifier))
}

func (e *PassThroughError) Unwrap() error { return ErrPassThrough }
