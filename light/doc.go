/*
Package light implements an optimistic sync-committee light client.

The client tracks the rotation of a chain's sync committee from a trusted
genesis committee up to the current head without verifying every signature
along the way and without trusting any single data source. It queries N
configured provers for their claimed committee hash at each period:

 1. If every surviving prover claims the same hash, the hash is accepted
    as-is. Agreement is the common case and costs one query per prover.

 2. If claims differ, the period is settled by a tournament of pairwise
    fights. In a fight each side must present a signed transition from the
    previously accepted committee to a committee matching its claim; forging
    such a transition for a false committee is computationally infeasible,
    so a dishonest prover can never defeat an honest one. Losers are
    eliminated for the rest of the session.

The protocol is secure under a single assumption: at least one configured
prover is honest and reachable. It does not need an honest majority.

The final committee at the head period is always fully verified before it is
returned, together with the index of the prover that substantiated it.

Verification itself is pluggable through the Verifier interface; BLSVerifier
implements it for BLS12-381 aggregate signatures. Provers are pluggable
through the provider.Prover interface, with an HTTP implementation under
provider/http. Checkpoints of reconciled periods can be persisted through a
store.Store so interrupted syncs resume where they left off.
*/
package light
