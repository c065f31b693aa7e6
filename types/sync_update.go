package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/optimist-light/optimist/libs/bytes"
)

// SignatureSize is the size of a compressed BLS12-381 G2 signature.
const SignatureSize = 96

// Signature is an aggregate BLS signature over a committee transition.
type Signature [SignatureSize]byte

// IsZero reports whether the signature is all zeroes.
func (s Signature) IsZero() bool {
	return s == Signature{}
}

func (s Signature) String() string {
	return strings.ToUpper(hex.EncodeToString(s[:]))
}

// MarshalText encodes the signature as hexadecimal digits. Used by
// json.Marshal.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes hexadecimal digits, with or without a 0x prefix.
// Used by json.Unmarshal.
func (s *Signature) UnmarshalText(data []byte) error {
	str := strings.TrimPrefix(string(data), "0x")
	dec, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	if len(dec) != SignatureSize {
		return fmt.Errorf("invalid signature length: %d", len(dec))
	}
	copy(s[:], dec)
	return nil
}

// SyncUpdate proves that the chain's committee at Period transitions validly
// from the committee at Period-1: the previous committee signs off on
// NextCommittee, with ParticipationBits recording which members signed.
//
// Verifying an update against a known previous committee yields either the
// next committee or an invalidity signal, never both.
type SyncUpdate struct {
	// Period is the period whose committee this update attests to. The
	// signing committee is the one active at Period-1.
	Period Period `json:"period"`

	// NextCommittee is the claimed committee for Period.
	NextCommittee Committee `json:"next_committee"`

	// ParticipationBits records which members of the previous committee
	// contributed to Signature, one bit per member in committee order.
	ParticipationBits bytes.HexBytes `json:"participation_bits"`

	// Signature is the aggregate signature of the participating members
	// over the transition's signing root.
	Signature Signature `json:"signature"`
}

// ValidateBasic performs stateless checks on the update. It does not verify
// the signature; that is the verifier's job.
func (u *SyncUpdate) ValidateBasic() error {
	if u == nil {
		return errors.New("nil sync update")
	}
	if u.Period == 0 {
		return errors.New("period must be positive")
	}
	if err := u.NextCommittee.ValidateBasic(); err != nil {
		return fmt.Errorf("next committee: %w", err)
	}
	if len(u.ParticipationBits) == 0 {
		return errors.New("empty participation bits")
	}
	if u.Signature.IsZero() {
		return errors.New("zero signature")
	}
	return nil
}

// Participants returns the members of prev whose participation bit is set.
// Bits beyond the committee size are ignored.
func (u *SyncUpdate) Participants(prev Committee) Committee {
	out := make(Committee, 0, len(prev))
	for i, pk := range prev {
		if i/8 >= len(u.ParticipationBits) {
			break
		}
		if u.ParticipationBits[i/8]&(1<<uint(i%8)) != 0 {
			out = append(out, pk)
		}
	}
	return out
}

func (u *SyncUpdate) String() string {
	return fmt.Sprintf("SyncUpdate{period %d -> %v}", u.Period, u.NextCommittee.Hash())
}
