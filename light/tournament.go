package light

import (
	"context"
	"errors"

	"github.com/optimist-light/optimist/types"
)

// Tournament reduces a set of conflicting claims about the committee hash at
// period down to a mutually consistent survivor set, anchored on prevHash.
//
// The first claim's hash seeds the champion set; every subsequent claim
// either joins it (equal hash) or challenges it in a Fight. A challenger
// that wins replaces the entire champion set, since refuting one champion's
// hash refutes them all. A challenger that loses, or a fight where neither
// side proves its claim, eliminates the challenger only: a dishonest
// champion left standing will lose a later fight against an honest
// challenger, and the honest prover is reachable by assumption.
//
// The returned claims all carry the same hash. Tournament fails only on
// ErrConflictingUpdates or context cancellation.
func (c *Client) Tournament(
	ctx context.Context,
	claims []types.Claim,
	period types.Period,
	prevHash types.CommitteeHash,
) ([]types.Claim, error) {
	if len(claims) == 0 {
		return nil, errors.New("no claims to reconcile")
	}
	if prevHash.IsZero() {
		return nil, ErrMissingTrustedHash
	}

	champions := claims[:1:1]
	for _, challenger := range claims[1:] {
		if challenger.Hash.Equal(champions[0].Hash) {
			champions = append(champions, challenger)
			continue
		}

		outcome, err := c.Fight(ctx, champions[0], challenger, period, prevHash)
		if err != nil {
			return nil, err
		}

		switch outcome {
		case SecondWins:
			c.events.ChampionReplaced(period, champions[0], challenger)
			for _, loser := range champions {
				c.eliminate(period, loser, "lost fight")
			}
			champions = []types.Claim{challenger}
		default: // FirstWins, NeitherWins
			c.eliminate(period, challenger, outcome.String())
		}
	}
	return champions, nil
}

func (c *Client) eliminate(period types.Period, claim types.Claim, reason string) {
	c.logger.Info("prover eliminated",
		"prover", claim.Prover, "period", period, "reason", reason)
	c.events.ProverEliminated(period, claim)
	c.metrics.ProversEliminated.Add(1)
}
