package types

import "fmt"

// Claim is a single prover's unverified assertion about the committee hash
// at some period. Prover is an index into the client's fixed prover list;
// indices are stable for the lifetime of a sync session.
//
// Claims are ephemeral: they are produced fresh each period and discarded
// once the period's hash is accepted.
type Claim struct {
	Prover int           `json:"prover"`
	Hash   CommitteeHash `json:"hash"`
}

func (c Claim) String() string {
	return fmt.Sprintf("Claim{prover #%d, hash %v}", c.Prover, c.Hash)
}
