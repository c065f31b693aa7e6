package light

import (
	"crypto/sha256"
	"encoding/binary"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/optimist-light/optimist/types"
)

// Verifier checks a signed committee transition. Given the trusted previous
// committee and an update, it either returns the next committee or reports
// the update invalid. Implementations must be deterministic and must not
// retain references to their arguments.
type Verifier interface {
	VerifyTransition(prev types.Committee, update *types.SyncUpdate) (types.Committee, bool)
}

// transitionDomain separates transition signing roots from any other message
// the committee keys might sign.
var transitionDomain = []byte("optimist/transition/v1")

// SigningRoot returns the message the previous committee signs to endorse a
// transition: a digest binding the previous committee's hash, the target
// period and the next committee's hash.
func SigningRoot(prevHash types.CommitteeHash, update *types.SyncUpdate) [32]byte {
	var period [8]byte
	binary.BigEndian.PutUint64(period[:], uint64(update.Period))
	next := update.NextCommittee.Hash()

	h := sha256.New()
	h.Write(transitionDomain)
	h.Write(prevHash[:])
	h.Write(period[:])
	h.Write(next[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// blstDST is the ciphersuite domain separation tag for BLS signatures on G2
// with proof of possession.
var blstDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// BLSVerifier verifies transitions signed with BLS12-381 aggregate
// signatures in the minimal-pubkey-size scheme: 48-byte G1 public keys and
// a 96-byte G2 signature.
type BLSVerifier struct {
	// Quorum: at least quorumNum/quorumDen of the previous committee must
	// have participated.
	quorumNum uint64
	quorumDen uint64
}

var _ Verifier = (*BLSVerifier)(nil)

// NewBLSVerifier returns a verifier requiring a 2/3 participation quorum.
func NewBLSVerifier() *BLSVerifier {
	return &BLSVerifier{quorumNum: 2, quorumDen: 3}
}

// VerifyTransition implements Verifier. An update is valid iff it is
// well-formed, targets some period with a quorum of the previous committee
// participating, and carries a correct aggregate signature of the
// participants over the transition's signing root.
func (v *BLSVerifier) VerifyTransition(prev types.Committee, update *types.SyncUpdate) (types.Committee, bool) {
	if update.ValidateBasic() != nil {
		return nil, false
	}
	if prev.ValidateBasic() != nil {
		return nil, false
	}

	participants := update.Participants(prev)
	if uint64(len(participants))*v.quorumDen < v.quorumNum*uint64(len(prev)) {
		return nil, false
	}

	pks := make([]*blst.P1Affine, 0, len(participants))
	for _, pk := range participants {
		p := new(blst.P1Affine).Uncompress(pk[:])
		if p == nil {
			return nil, false
		}
		pks = append(pks, p)
	}

	sig := new(blst.P2Affine).Uncompress(update.Signature[:])
	if sig == nil {
		return nil, false
	}

	root := SigningRoot(prev.Hash(), update)
	if !sig.FastAggregateVerify(true, pks, root[:], blstDST) {
		return nil, false
	}
	return update.NextCommittee, true
}
