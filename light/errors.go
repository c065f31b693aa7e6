package light

import (
	"errors"
	"fmt"

	"github.com/optimist-light/optimist/types"
)

var (
	// ErrNoProvers means no provers were configured. At least one prover
	// is required; the protocol's security additionally assumes at least
	// one of them is honest.
	ErrNoProvers = errors.New("no provers configured")

	// ErrMissingTrustedHash is returned when an operation that needs
	// cryptographic continuity is invoked without an expected committee
	// hash. An unverified value is never trusted silently.
	ErrMissingTrustedHash = errors.New("missing trusted committee hash")
)

// ErrNoHonestProver means no surviving prover's final committee verified
// against the reconciled hash. Either every configured prover was dishonest
// (violating the core security assumption) or there is a correctness bug.
// The session yields no partial result.
type ErrNoHonestProver struct {
	Period types.Period
}

func (e ErrNoHonestProver) Error() string {
	return fmt.Sprintf("no honest prover: no surviving prover could prove the committee at period %d", e.Period)
}

// ErrConflictingUpdates means two provers both presented cryptographically
// valid transitions to different committees for the same period and prior
// state. Under an unforgeable-signature assumption this cannot happen; it
// signals signature forgery or a consensus fork the light client cannot
// arbitrate, and terminates the session.
type ErrConflictingUpdates struct {
	Period types.Period

	First  types.Claim
	Second types.Claim
}

func (e ErrConflictingUpdates) Error() string {
	return fmt.Sprintf(
		"conflicting valid updates at period %d: %v vs %v",
		e.Period, e.First, e.Second)
}

// ErrHashMismatch means a fetched committee did not hash to the expected
// value. Within a round this is a recoverable per-prover fault.
type ErrHashMismatch struct {
	Period types.Period
	Want   types.CommitteeHash
	Got    types.CommitteeHash
}

func (e ErrHashMismatch) Error() string {
	return fmt.Sprintf(
		"committee at period %d hashes to %v, expected %v",
		e.Period, e.Got, e.Want)
}
