package light

import "github.com/optimist-light/optimist/types"

// EventSink receives structured notifications about sync and tournament
// progress. Callbacks run synchronously on the syncing goroutine and must
// return promptly. The zero sink is NopEventSink.
type EventSink interface {
	// PeriodReconciled fires once a period's hash is accepted. disputed
	// reports whether a tournament was needed.
	PeriodReconciled(period types.Period, hash types.CommitteeHash, disputed bool)

	// FightStarted fires before a pairwise dispute is resolved.
	FightStarted(period types.Period, first, second types.Claim)

	// ProverEliminated fires when a prover leaves the survivor set, either
	// by losing a fight or by failing to answer. Eliminated provers are
	// never re-admitted.
	ProverEliminated(period types.Period, claim types.Claim)

	// ChampionReplaced fires when a challenger refutes the current
	// champion set, discarding it wholesale.
	ChampionReplaced(period types.Period, from, to types.Claim)
}

// NopEventSink ignores all events.
type NopEventSink struct{}

var _ EventSink = NopEventSink{}

func (NopEventSink) PeriodReconciled(types.Period, types.CommitteeHash, bool) {}
func (NopEventSink) FightStarted(types.Period, types.Claim, types.Claim)      {}
func (NopEventSink) ProverEliminated(types.Period, types.Claim)               {}
func (NopEventSink) ChampionReplaced(types.Period, types.Claim, types.Claim)  {}
