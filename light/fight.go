package light

import (
	"context"
	"errors"
	"fmt"

	"github.com/optimist-light/optimist/types"
)

// FightOutcome is the result of a pairwise dispute between two claims.
type FightOutcome int

const (
	// FirstWins: the first claim was proven, the second was not.
	FirstWins FightOutcome = iota + 1
	// SecondWins: the second claim was proven, the first was not.
	SecondWins
	// NeitherWins: neither side could prove its claim. Both provers are
	// dishonest or unreachable; the dispute is void.
	NeitherWins
)

func (o FightOutcome) String() string {
	switch o {
	case FirstWins:
		return "FirstWins"
	case SecondWins:
		return "SecondWins"
	case NeitherWins:
		return "NeitherWins"
	default:
		return fmt.Sprintf("FightOutcome(%d)", int(o))
	}
}

// Fight resolves a dispute between two conflicting claims about the
// committee hash at period, anchored on prevHash, the trusted committee hash
// at period-1. Each side must produce a signed transition from the trusted
// previous committee to a committee matching its claim; the side that can is
// the winner.
//
// If both sides produce valid transitions to different committees the
// signature scheme itself has been defeated and Fight returns
// ErrConflictingUpdates, which callers must treat as fatal.
func (c *Client) Fight(
	ctx context.Context,
	first, second types.Claim,
	period types.Period,
	prevHash types.CommitteeHash,
) (FightOutcome, error) {
	if prevHash.IsZero() {
		return 0, ErrMissingTrustedHash
	}
	if first.Hash.Equal(second.Hash) {
		return 0, errors.New("claims agree, nothing to dispute")
	}

	c.events.FightStarted(period, first, second)
	c.metrics.Fights.Add(1)
	c.logger.Debug("resolving dispute",
		"period", period, "first", first.Prover, "second", second.Prover)

	firstProven := c.claimProvable(ctx, first, period, prevHash)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	secondProven := c.claimProvable(ctx, second, period, prevHash)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch {
	case firstProven && secondProven:
		return 0, ErrConflictingUpdates{Period: period, First: first, Second: second}
	case firstProven:
		return FirstWins, nil
	case secondProven:
		return SecondWins, nil
	default:
		return NeitherWins, nil
	}
}

// claimProvable reports whether the claim's prover can back its hash with a
// verifiable transition from the trusted state at period-1. Any failure
// along the way (unreachable prover, malformed data, bad signature, hash
// mismatch) counts against the claim.
func (c *Client) claimProvable(ctx context.Context, claim types.Claim, period types.Period, prevHash types.CommitteeHash) bool {
	prev, err := c.trustedCommittee(ctx, claim.Prover, period-1, prevHash)
	if err != nil {
		c.logger.Debug("previous committee not provable",
			"prover", claim.Prover, "period", period-1, "err", err)
		return false
	}

	update, err := c.provers[claim.Prover].SyncUpdate(ctx, period)
	if err != nil {
		c.logger.Debug("sync update unavailable",
			"prover", claim.Prover, "period", period, "err", err)
		return false
	}
	if err := update.ValidateBasic(); err != nil {
		c.logger.Debug("malformed sync update",
			"prover", claim.Prover, "period", period, "err", err)
		return false
	}
	if update.Period != period {
		return false
	}

	next, ok := c.verifier.VerifyTransition(prev, update)
	if !ok {
		c.logger.Debug("transition rejected",
			"prover", claim.Prover, "period", period)
		return false
	}
	return next.Hash().Equal(claim.Hash)
}

// trustedCommittee returns the committee at period, verified against
// expectedHash. The genesis committee is returned directly; any other
// committee is fetched from the given prover and accepted only if it hashes
// to expectedHash, so trust still derives from the anchor, not the prover.
func (c *Client) trustedCommittee(
	ctx context.Context,
	proverIdx int,
	period types.Period,
	expectedHash types.CommitteeHash,
) (types.Committee, error) {
	if period == c.genesisPeriod {
		if !expectedHash.IsZero() && !c.genesisHash.Equal(expectedHash) {
			return nil, ErrHashMismatch{Period: period, Want: expectedHash, Got: c.genesisHash}
		}
		return c.genesisCommittee, nil
	}
	if expectedHash.IsZero() {
		return nil, ErrMissingTrustedHash
	}

	committee, err := c.provers[proverIdx].Committee(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("fetch committee at period %d: %w", period, err)
	}
	if err := committee.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("committee at period %d: %w", period, err)
	}
	if got := committee.Hash(); !got.Equal(expectedHash) {
		return nil, ErrHashMismatch{Period: period, Want: expectedHash, Got: got}
	}
	return committee, nil
}
