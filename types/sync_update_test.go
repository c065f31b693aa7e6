package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimist-light/optimist/libs/bytes"
)

func testUpdate() *SyncUpdate {
	u := &SyncUpdate{
		Period:            3,
		NextCommittee:     testCommittee(4, 3),
		ParticipationBits: bytes.HexBytes{0x0f},
	}
	u.Signature[0] = 1
	return u
}

func TestSyncUpdateValidateBasic(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*SyncUpdate)
		expectOK bool
	}{
		{"valid", func(*SyncUpdate) {}, true},
		{"zero period", func(u *SyncUpdate) { u.Period = 0 }, false},
		{"empty committee", func(u *SyncUpdate) { u.NextCommittee = nil }, false},
		{"no participation bits", func(u *SyncUpdate) { u.ParticipationBits = nil }, false},
		{"zero signature", func(u *SyncUpdate) { u.Signature = Signature{} }, false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			u := testUpdate()
			tc.mutate(u)
			err := u.ValidateBasic()
			if tc.expectOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	var nilUpdate *SyncUpdate
	assert.Error(t, nilUpdate.ValidateBasic())
}

func TestSyncUpdateParticipants(t *testing.T) {
	prev := testCommittee(10, 1)

	u := testUpdate()
	u.ParticipationBits = bytes.HexBytes{0b10100101, 0b00000001}

	got := u.Participants(prev)
	require.Len(t, got, 5)
	assert.Equal(t, Committee{prev[0], prev[2], prev[5], prev[7], prev[8]}, got)

	// Bits beyond the bitfield count as absent.
	u.ParticipationBits = bytes.HexBytes{0b00000011}
	assert.Len(t, u.Participants(prev), 2)

	// Bits beyond the committee are ignored.
	u.ParticipationBits = bytes.HexBytes{0xff, 0xff}
	assert.Len(t, u.Participants(testCommittee(3, 1)), 3)
}

func TestSyncUpdateJSONRoundTrip(t *testing.T) {
	u := testUpdate()

	bz, err := json.Marshal(u)
	require.NoError(t, err)

	var got SyncUpdate
	require.NoError(t, json.Unmarshal(bz, &got))
	assert.Equal(t, *u, got)
}
