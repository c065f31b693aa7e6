package light_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimist-light/optimist/light"
	"github.com/optimist-light/optimist/light/provider"
	"github.com/optimist-light/optimist/light/provider/mock"
	"github.com/optimist-light/optimist/types"
)

func TestTournamentUnanimousClaimsSkipFights(t *testing.T) {
	const period = types.Period(1)

	committees, updates := canonicalChain(period)
	provers := []provider.Prover{
		mock.New("a", committees, updates),
		mock.New("b", committees, updates),
		mock.New("c", committees, updates),
	}

	sink := &recordingSink{}
	c := newTestClient(t, period, provers, light.WithEvents(sink))

	hash := committeeAt(period).Hash()
	claims := []types.Claim{
		{Prover: 0, Hash: hash},
		{Prover: 1, Hash: hash},
		{Prover: 2, Hash: hash},
	}

	survivors, err := c.Tournament(context.Background(), claims, period, committeeAt(0).Hash())
	require.NoError(t, err)
	assert.Equal(t, claims, survivors)
	assert.Zero(t, sink.fights)
}

func TestTournamentChampionSetReplacedWholesale(t *testing.T) {
	const period = types.Period(2)

	committees, updates := canonicalChain(period)
	badHash := altCommitteeAt(period).Hash()

	// Two dishonest provers claim the same unprovable hash, the honest one
	// comes last. Its single win must eliminate both champions at once.
	bad1 := mock.New("bad1", committees, nil)
	bad1.SetClaimedHash(period, badHash)
	bad2 := mock.New("bad2", committees, nil)
	bad2.SetClaimedHash(period, badHash)
	honest := mock.New("honest", committees, updates)

	sink := &recordingSink{}
	c := newTestClient(t, period, []provider.Prover{bad1, bad2, honest}, light.WithEvents(sink))

	claims := []types.Claim{
		{Prover: 0, Hash: badHash},
		{Prover: 1, Hash: badHash},
		{Prover: 2, Hash: committeeAt(period).Hash()},
	}

	survivors, err := c.Tournament(context.Background(), claims, period, committeeAt(period-1).Hash())
	require.NoError(t, err)
	require.Len(t, survivors, 1)
	assert.Equal(t, types.Claim{Prover: 2, Hash: committeeAt(period).Hash()}, survivors[0])

	assert.Equal(t, 1, sink.fights)
	assert.Equal(t, 1, sink.replaced)
	assert.Len(t, sink.eliminated, 2)
}

// A fight where neither side proves its claim eliminates the challenger but
// keeps the champion set for the rest of the round. A dishonest champion
// that survives such a void dispute still loses to the first honest
// challenger.
func TestTournamentVoidFightKeepsChampion(t *testing.T) {
	const period = types.Period(2)

	committees, updates := canonicalChain(period)

	champ := mock.New("champ", committees, nil)
	champ.SetClaimedHash(period, altCommitteeAt(period).Hash())

	otherBad := altCommitteeAt(period)
	otherBad[1][2] = 0x77
	challenger := mock.New("challenger", committees, nil)
	challenger.SetClaimedHash(period, otherBad.Hash())

	honest := mock.New("honest", committees, updates)

	sink := &recordingSink{}
	c := newTestClient(t, period, []provider.Prover{champ, challenger, honest}, light.WithEvents(sink))

	claims := []types.Claim{
		{Prover: 0, Hash: altCommitteeAt(period).Hash()},
		{Prover: 1, Hash: otherBad.Hash()},
		{Prover: 2, Hash: committeeAt(period).Hash()},
	}

	survivors, err := c.Tournament(context.Background(), claims, period, committeeAt(period-1).Hash())
	require.NoError(t, err)

	// Fight 1 (champ vs challenger) is void: challenger out, champ stays.
	// Fight 2 (champ vs honest): honest wins and takes the round.
	require.Len(t, survivors, 1)
	assert.Equal(t, 2, survivors[0].Prover)
	assert.Equal(t, 2, sink.fights)
	assert.Len(t, sink.eliminated, 2)
}

func TestTournamentSurvivorsShareOneHash(t *testing.T) {
	const period = types.Period(3)

	committees, updates := canonicalChain(period)

	honestHash := committeeAt(period).Hash()
	provers := make([]provider.Prover, 0, 5)
	claims := make([]types.Claim, 0, 5)

	// Alternating dishonest and honest provers.
	for i := 0; i < 5; i++ {
		if i%2 == 0 {
			bad := altCommitteeAt(period)
			bad[0][3] = byte(i + 1)
			m := mock.New("bad", committees, nil)
			m.SetClaimedHash(period, bad.Hash())
			provers = append(provers, m)
			claims = append(claims, types.Claim{Prover: i, Hash: bad.Hash()})
			continue
		}
		provers = append(provers, mock.New("honest", committees, updates))
		claims = append(claims, types.Claim{Prover: i, Hash: honestHash})
	}

	c := newTestClient(t, period, provers)

	survivors, err := c.Tournament(context.Background(), claims, period, committeeAt(period-1).Hash())
	require.NoError(t, err)
	require.NotEmpty(t, survivors)
	for _, claim := range survivors {
		assert.Equal(t, honestHash, claim.Hash)
	}
	assert.Len(t, survivors, 2)
}

func TestTournamentRejectsBadInput(t *testing.T) {
	const period = types.Period(1)

	committees, updates := canonicalChain(period)
	p := mock.New("p", committees, updates)
	c := newTestClient(t, period, []provider.Prover{p})

	_, err := c.Tournament(context.Background(), nil, period, committeeAt(0).Hash())
	require.Error(t, err)

	claims := []types.Claim{{Prover: 0, Hash: committeeAt(period).Hash()}}
	_, err = c.Tournament(context.Background(), claims, period, types.CommitteeHash{})
	require.ErrorIs(t, err, light.ErrMissingTrustedHash)
}
