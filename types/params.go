package types

import "time"

// Beacon chain timing constants. A sync committee serves for one period
// (EpochsPerPeriod epochs); light clients only need to track committee
// rotations at period granularity.
const (
	SecondsPerSlot  = 12
	SlotsPerEpoch   = 32
	EpochsPerPeriod = 256

	// SlotsPerPeriod is the number of slots a single sync committee serves.
	SlotsPerPeriod = SlotsPerEpoch * EpochsPerPeriod
)

// PeriodAt returns the sync-committee period active at the given wall-clock
// time, for a chain whose slot 0 started at genesisTime.
func PeriodAt(genesisTime, now time.Time) Period {
	if now.Before(genesisTime) {
		return 0
	}
	slot := uint64(now.Sub(genesisTime)/time.Second) / SecondsPerSlot
	return Period(slot / SlotsPerPeriod)
}
