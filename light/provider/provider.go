package provider

import (
	"context"

	"github.com/optimist-light/optimist/types"
)

// Prover provides committee information for the light client to sync
// (verification happens in the client). Provers are untrusted: everything
// they return is treated as a claim until proven against the trust anchor.
type Prover interface {
	// Committee returns the full sync committee the prover believes was
	// active at the given period.
	//
	// If the prover fails to answer due to IO or other issues,
	// ErrProverUnreachable is returned. If it has no committee for the
	// period, ErrCommitteeNotFound is returned.
	Committee(ctx context.Context, period types.Period) (types.Committee, error)

	// CommitteeHash returns the prover's claimed committee hash for the
	// given period. head is the current chain-head period and batch is a
	// hint allowing the prover to skip or batch its own verification up to
	// that many periods; neither changes how the client treats the result,
	// which is an unverified claim regardless.
	CommitteeHash(ctx context.Context, period, head types.Period, batch uint64) (types.CommitteeHash, error)

	// SyncUpdate returns the signed transition record for the boundary
	// period-1 -> period.
	SyncUpdate(ctx context.Context, period types.Period) (*types.SyncUpdate, error)

	// String identifies the prover (e.g. its endpoint URL) for logging.
	String() string
}
