package store

import (
	"errors"

	"github.com/optimist-light/optimist/types"
)

// ErrCheckpointNotFound is returned when the store has no checkpoint for the
// requested period.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Checkpoint records the committee hash accepted for a reconciled period,
// either because every surviving prover agreed on it or because a tournament
// resolved it.
type Checkpoint struct {
	Period types.Period        `json:"period"`
	Hash   types.CommitteeHash `json:"hash"`
}

// Store is anything that can persistently store checkpoints. A client with a
// populated store resumes the sync walk from the last checkpointed period
// instead of genesis.
type Store interface {
	// SaveCheckpoint persists a checkpoint, overwriting any previous one
	// for the same period.
	SaveCheckpoint(cp Checkpoint) error

	// Checkpoint returns the checkpoint for the given period.
	//
	// If there is none, ErrCheckpointNotFound is returned.
	Checkpoint(period types.Period) (Checkpoint, error)

	// LastCheckpointPeriod returns the last (newest) checkpointed period.
	//
	// If the store is empty, -1 and nil error are returned.
	LastCheckpointPeriod() (int64, error)

	// FirstCheckpointPeriod returns the first (oldest) checkpointed period.
	//
	// If the store is empty, -1 and nil error are returned.
	FirstCheckpointPeriod() (int64, error)

	// DeleteCheckpoint removes the checkpoint for the given period.
	DeleteCheckpoint(period types.Period) error

	// Prune removes the oldest checkpoints until at most size remain.
	Prune(size uint16) error

	// Size returns the number of stored checkpoints.
	Size() uint16
}
