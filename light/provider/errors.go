package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrProverUnreachable is returned when the prover does not respond,
	// whatever the transport-level reason. The client treats the prover's
	// claim as a loss for the round.
	ErrProverUnreachable = errors.New("prover failed to respond")

	// ErrCommitteeNotFound is returned when a prover has no committee,
	// hash or update for the requested period (e.g. it has been pruned).
	ErrCommitteeNotFound = errors.New("committee not found")
)

// ErrBadCommittee is returned when a prover answers with something the
// client cannot decode or that fails basic validation.
type ErrBadCommittee struct {
	Reason error
}

func (e ErrBadCommittee) Error() string {
	return fmt.Sprintf("prover sent bad committee data: %v", e.Reason)
}

func (e ErrBadCommittee) Unwrap() error {
	return e.Reason
}
