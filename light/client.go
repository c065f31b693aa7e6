package light

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/optimist-light/optimist/libs/log"
	"github.com/optimist-light/optimist/light/provider"
	"github.com/optimist-light/optimist/light/store"
	"github.com/optimist-light/optimist/types"
)

// DefaultBatchSize is the hash-chain batch hint passed to provers when
// requesting committee hash claims.
const DefaultBatchSize = 64

const defaultPruningSize = 1000

// HeadFunc reports the chain's current sync-committee period. It is
// consulted once per sync session.
type HeadFunc func(ctx context.Context) (types.Period, error)

// Option sets a parameter for the light client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBatchSize sets the batch hint forwarded to provers on hash requests.
// Defaults to DefaultBatchSize.
func WithBatchSize(size uint64) Option {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithEvents sets the event sink notified of sync and tournament progress.
// Defaults to NopEventSink.
func WithEvents(sink EventSink) Option {
	return func(c *Client) { c.events = sink }
}

// WithMetrics sets the metrics collector. Defaults to NopMetrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithPruningSize sets the maximum number of checkpoints kept in the store.
// Defaults to 1000. 0 keeps everything.
func WithPruningSize(size uint16) Option {
	return func(c *Client) { c.pruningSize = size }
}

// Client is an optimistic sync-committee light client. It tracks committee
// rotations from a trusted genesis committee to the chain's head by querying
// N untrusted provers, trusting agreement optimistically and settling
// disagreement with cryptographic disputes. It is secure as long as at
// least one configured prover is honest and reachable.
//
// A Client is not safe for concurrent use.
type Client struct {
	genesisPeriod    types.Period
	genesisCommittee types.Committee
	genesisHash      types.CommitteeHash

	headFn   HeadFunc
	verifier Verifier
	provers  []provider.Prover

	checkpoints store.Store
	batchSize   uint64
	pruningSize uint16

	logger  log.Logger
	events  EventSink
	metrics *Metrics
}

// NewClient returns a light client anchored on the given genesis committee.
// The checkpoint store may be nil, in which case every session walks from
// genesis.
func NewClient(
	genesisPeriod types.Period,
	genesisCommittee types.Committee,
	headFn HeadFunc,
	verifier Verifier,
	provers []provider.Prover,
	checkpoints store.Store,
	options ...Option,
) (*Client, error) {
	if err := genesisCommittee.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("genesis committee: %w", err)
	}
	if headFn == nil {
		return nil, fmt.Errorf("nil head function")
	}
	if verifier == nil {
		return nil, fmt.Errorf("nil verifier")
	}
	if len(provers) == 0 {
		return nil, ErrNoProvers
	}
	for i, p := range provers {
		if p == nil {
			return nil, fmt.Errorf("nil prover at index %d", i)
		}
	}

	c := &Client{
		genesisPeriod:    genesisPeriod,
		genesisCommittee: genesisCommittee,
		genesisHash:      genesisCommittee.Hash(),
		headFn:           headFn,
		verifier:         verifier,
		provers:          provers,
		checkpoints:      checkpoints,
		batchSize:        DefaultBatchSize,
		pruningSize:      defaultPruningSize,
		logger:           log.NewNopLogger(),
		events:           NopEventSink{},
		metrics:          NopMetrics(),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// GenesisPeriod returns the period of the trust anchor.
func (c *Client) GenesisPeriod() types.Period { return c.genesisPeriod }

// SyncFromGenesis walks from the trust anchor (or the last stored
// checkpoint) to the chain's head one period at a time, reconciling the
// provers' hash claims each period: unanimous agreement is accepted
// optimistically, disagreement triggers a tournament. It returns the fully
// verified committee at the head period and the index of the prover that
// served it.
//
// Provers that fail to answer or lose a dispute are eliminated for the rest
// of the session. If no survivor can prove the head committee the session
// fails with ErrNoHonestProver; a valid-vs-valid dispute fails it with
// ErrConflictingUpdates. There are no partial results.
func (c *Client) SyncFromGenesis(ctx context.Context) (types.Committee, int, error) {
	head, err := c.headFn(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve head period: %w", err)
	}
	if head < c.genesisPeriod {
		return nil, 0, fmt.Errorf("head period %d precedes genesis period %d", head, c.genesisPeriod)
	}

	start, lastHash := c.restoreCheckpoint(head)

	survivors := make([]int, len(c.provers))
	for i := range survivors {
		survivors[i] = i
	}

	c.logger.Info("syncing to head",
		"start", start, "head", head, "provers", len(survivors))

	walkedTo := start
	for period := start + 1; period <= head; period++ {
		claims, failed := c.gatherClaims(ctx, survivors, period, head)
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		for _, claim := range failed {
			c.eliminate(period, claim, "no claim")
		}
		if len(claims) == 0 {
			survivors = nil
			break
		}

		disputed := !unanimous(claims)
		if disputed {
			claims, err = c.Tournament(ctx, claims, period, lastHash)
			if err != nil {
				return nil, 0, err
			}
		}

		lastHash = claims[0].Hash
		walkedTo = period
		survivors = survivors[:0]
		for _, claim := range claims {
			survivors = append(survivors, claim.Prover)
		}

		c.saveCheckpoint(period, lastHash)
		c.events.PeriodReconciled(period, lastHash, disputed)
		c.metrics.PeriodsSynced.Add(1)
		c.metrics.Survivors.Set(float64(len(survivors)))

		if len(survivors) < 2 {
			// No disagreement is possible with one prover, so the
			// remaining periods need no round-by-round confirmation.
			c.logger.Info("fewer than two provers remain, stopping walk early",
				"period", period, "head", head)
			break
		}
	}

	for _, idx := range survivors {
		expected := lastHash
		if walkedTo < head {
			expected, err = c.provers[idx].CommitteeHash(ctx, head, head, c.batchSize)
			if err != nil {
				c.logger.Error("head claim unavailable", "prover", idx, "err", err)
				continue
			}
		}
		committee, err := c.Committee(ctx, head, idx, expected)
		if err != nil {
			c.logger.Error("head committee verification failed",
				"prover", idx, "period", head, "err", err)
			continue
		}
		c.logger.Info("synced to head", "period", head, "prover", idx)
		return committee, idx, nil
	}

	return nil, 0, ErrNoHonestProver{Period: head}
}

// Committee fetches the committee at period from the given prover and
// verifies it against expectedHash. The genesis committee is returned
// directly, anything else is only as trusted as the hash it is checked
// against.
func (c *Client) Committee(
	ctx context.Context,
	period types.Period,
	proverIdx int,
	expectedHash types.CommitteeHash,
) (types.Committee, error) {
	if proverIdx < 0 || proverIdx >= len(c.provers) {
		return nil, fmt.Errorf("prover index %d out of range", proverIdx)
	}
	return c.trustedCommittee(ctx, proverIdx, period, expectedHash)
}

// gatherClaims asks every surviving prover, concurrently, for its committee
// hash claim at period. It returns the collected claims plus a claim stub
// for every prover that failed to answer.
func (c *Client) gatherClaims(
	ctx context.Context,
	survivors []int,
	period, head types.Period,
) ([]types.Claim, []types.Claim) {
	type result struct {
		hash types.CommitteeHash
		err  error
	}
	results := make([]result, len(survivors))

	g, gctx := errgroup.WithContext(ctx)
	for i, idx := range survivors {
		i, idx := i, idx
		g.Go(func() error {
			hash, err := c.provers[idx].CommitteeHash(gctx, period, head, c.batchSize)
			if err == nil && hash.IsZero() {
				err = fmt.Errorf("zero hash claim")
			}
			results[i] = result{hash: hash, err: err}
			return nil
		})
	}
	// Workers never return errors; Wait is a barrier.
	_ = g.Wait()

	var claims, failed []types.Claim
	for i, idx := range survivors {
		if err := results[i].err; err != nil {
			c.logger.Error("prover failed to claim",
				"prover", idx, "period", period, "err", err)
			failed = append(failed, types.Claim{Prover: idx})
			continue
		}
		claims = append(claims, types.Claim{Prover: idx, Hash: results[i].hash})
	}
	return claims, failed
}

// restoreCheckpoint returns the period and hash to resume from: the newest
// stored checkpoint at or before head, or the genesis anchor.
func (c *Client) restoreCheckpoint(head types.Period) (types.Period, types.CommitteeHash) {
	start, lastHash := c.genesisPeriod, c.genesisHash
	if c.checkpoints == nil {
		return start, lastHash
	}

	last, err := c.checkpoints.LastCheckpointPeriod()
	if err != nil || last < 0 {
		return start, lastHash
	}
	if p := types.Period(last); p > start && p <= head {
		cp, err := c.checkpoints.Checkpoint(p)
		if err != nil {
			c.logger.Error("unreadable checkpoint", "period", p, "err", err)
			return start, lastHash
		}
		c.logger.Info("resuming from checkpoint", "period", cp.Period)
		return cp.Period, cp.Hash
	}
	return start, lastHash
}

// saveCheckpoint persists a reconciled period. Storage failures degrade the
// next session's starting point, not this session's correctness, so they
// are logged and swallowed.
func (c *Client) saveCheckpoint(period types.Period, hash types.CommitteeHash) {
	if c.checkpoints == nil {
		return
	}
	if err := c.checkpoints.SaveCheckpoint(store.Checkpoint{Period: period, Hash: hash}); err != nil {
		c.logger.Error("failed to save checkpoint", "period", period, "err", err)
		return
	}
	if c.pruningSize > 0 {
		if err := c.checkpoints.Prune(c.pruningSize); err != nil {
			c.logger.Error("failed to prune checkpoints", "err", err)
		}
	}
}

func unanimous(claims []types.Claim) bool {
	for _, claim := range claims[1:] {
		if !claim.Hash.Equal(claims[0].Hash) {
			return false
		}
	}
	return true
}
