package light_test

import (
	gobytes "bytes"
	"context"
	"sync"

	"github.com/optimist-light/optimist/libs/bytes"
	"github.com/optimist-light/optimist/light"
	"github.com/optimist-light/optimist/types"
)

// fakeVerifier treats an update as validly signed iff the first 32 bytes of
// its signature equal the transition's signing root. Tests "sign" updates by
// copying the root into the signature, no real crypto involved.
type fakeVerifier struct{}

var _ light.Verifier = fakeVerifier{}

func (fakeVerifier) VerifyTransition(prev types.Committee, update *types.SyncUpdate) (types.Committee, bool) {
	if update.ValidateBasic() != nil {
		return nil, false
	}
	root := light.SigningRoot(prev.Hash(), update)
	if !gobytes.Equal(update.Signature[:32], root[:]) {
		return nil, false
	}
	return update.NextCommittee, true
}

// committeeAt returns the canonical ("honest chain") committee for a period,
// derived deterministically so every test agrees on it.
func committeeAt(period types.Period) types.Committee {
	c := make(types.Committee, 4)
	for i := range c {
		c[i][0] = byte(period + 1)
		c[i][1] = byte(i + 1)
	}
	return c
}

// altCommitteeAt returns a committee for the period that differs from the
// canonical one, for modelling forks and dishonest claims.
func altCommitteeAt(period types.Period) types.Committee {
	c := committeeAt(period)
	c[0][2] = 0xff
	return c
}

// signedUpdate returns an update for prev -> next at period that
// fakeVerifier accepts.
func signedUpdate(prev types.Committee, period types.Period, next types.Committee) *types.SyncUpdate {
	u := &types.SyncUpdate{
		Period:            period,
		NextCommittee:     next,
		ParticipationBits: bytes.HexBytes{0x0f},
	}
	root := light.SigningRoot(prev.Hash(), u)
	copy(u.Signature[:], root[:])
	return u
}

// canonicalChain returns committees and updates for the canonical chain over
// periods [0, head].
func canonicalChain(head types.Period) (map[types.Period]types.Committee, map[types.Period]*types.SyncUpdate) {
	committees := make(map[types.Period]types.Committee, head+1)
	updates := make(map[types.Period]*types.SyncUpdate, head)
	committees[0] = committeeAt(0)
	for p := types.Period(1); p <= head; p++ {
		committees[p] = committeeAt(p)
		updates[p] = signedUpdate(committees[p-1], p, committees[p])
	}
	return committees, updates
}

// headAt returns a HeadFunc pinned to the given period.
func headAt(period types.Period) light.HeadFunc {
	return func(context.Context) (types.Period, error) {
		return period, nil
	}
}

// recordingSink captures events for assertions.
type recordingSink struct {
	mtx        sync.Mutex
	reconciled []types.Period
	disputed   []types.Period
	eliminated []types.Claim
	replaced   int
	fights     int
}

var _ light.EventSink = (*recordingSink)(nil)

func (s *recordingSink) PeriodReconciled(period types.Period, _ types.CommitteeHash, disputed bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.reconciled = append(s.reconciled, period)
	if disputed {
		s.disputed = append(s.disputed, period)
	}
}

func (s *recordingSink) FightStarted(types.Period, types.Claim, types.Claim) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.fights++
}

func (s *recordingSink) ProverEliminated(_ types.Period, claim types.Claim) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.eliminated = append(s.eliminated, claim)
}

func (s *recordingSink) ChampionReplaced(types.Period, types.Claim, types.Claim) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.replaced++
}
