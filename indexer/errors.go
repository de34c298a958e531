package indexer

import "errors"

var (
	// ErrNotPersistable is returned by Finalize when the build was started
	// with Params that cannot produce a usable index (see Params.CanPersist).
	ErrNotPersistable = errors.New("indexer: params do not permit persisting this build")

	// ErrNonMonotoneBytePos is returned when an event's trace file byte
	// position is less than a previously seen position: the parser
	// collaborator is required to deliver events in non-decreasing byte
	// order.
	ErrNonMonotoneBytePos = errors.New("indexer: event byte position moved backwards")

	// ErrAlreadyFinalized is returned by HandleEvent once Finalize has run.
	ErrAlreadyFinalized = errors.New("indexer: build already finalized")

	// ErrUnknownRegister is returned when an EventRegisterWrite names a
	// register the RegisterMap collaborator does not recognize.
	ErrUnknownRegister = errors.New("indexer: register write to unknown register")
)
