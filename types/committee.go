package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Period is a sync-committee period index. Periods are totally ordered and
// advance by one every SlotsPerPeriod slots.
type Period uint64

// PubKeySize is the size of a compressed BLS12-381 G1 public key.
const PubKeySize = 48

// HashSize is the size of a committee hash.
const HashSize = sha256.Size

// PubKey is a compressed BLS public key identifying a committee member.
type PubKey [PubKeySize]byte

// IsZero reports whether the key is all zeroes.
func (pk PubKey) IsZero() bool {
	return pk == PubKey{}
}

func (pk PubKey) String() string {
	return strings.ToUpper(hex.EncodeToString(pk[:]))
}

// MarshalText encodes the key as hexadecimal digits. Used by json.Marshal.
func (pk PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText decodes hexadecimal digits, with or without a 0x prefix.
// Used by json.Unmarshal.
func (pk *PubKey) UnmarshalText(data []byte) error {
	s := strings.TrimPrefix(string(data), "0x")
	dec, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(dec) != PubKeySize {
		return fmt.Errorf("invalid pubkey length: %d", len(dec))
	}
	copy(pk[:], dec)
	return nil
}

// CommitteeHash is a digest of a Committee, used as a cheap equality proxy
// so that full committees never need to be compared member by member.
type CommitteeHash [HashSize]byte

// Equal reports whether two hashes are identical.
func (h CommitteeHash) Equal(other CommitteeHash) bool {
	return h == other
}

// IsZero reports whether the hash is unset.
func (h CommitteeHash) IsZero() bool {
	return h == CommitteeHash{}
}

func (h CommitteeHash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// MarshalText encodes the hash as hexadecimal digits. Used by json.Marshal.
func (h CommitteeHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes hexadecimal digits, with or without a 0x prefix.
// Used by json.Unmarshal.
func (h *CommitteeHash) UnmarshalText(data []byte) error {
	s := strings.TrimPrefix(string(data), "0x")
	dec, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(dec) != HashSize {
		return fmt.Errorf("invalid committee hash length: %d", len(dec))
	}
	copy(h[:], dec)
	return nil
}

// Committee is the ordered set of member public keys active during one
// period. Committees are immutable once fetched and verified.
type Committee []PubKey

// Hash returns the SHA-256 digest over the concatenated member keys, in
// order. It is pure: equal committees always hash to equal digests, and any
// single-member difference changes the digest.
func (c Committee) Hash() CommitteeHash {
	h := sha256.New()
	for _, pk := range c {
		h.Write(pk[:])
	}
	var out CommitteeHash
	copy(out[:], h.Sum(nil))
	return out
}

// ValidateBasic performs stateless checks on the committee.
func (c Committee) ValidateBasic() error {
	if len(c) == 0 {
		return errors.New("empty committee")
	}
	for i, pk := range c {
		if pk.IsZero() {
			return fmt.Errorf("zero pubkey at index %d", i)
		}
	}
	return nil
}

func (c Committee) String() string {
	return fmt.Sprintf("Committee{%d members, hash %v}", len(c), c.Hash())
}
