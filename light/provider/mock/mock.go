package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/optimist-light/optimist/light/provider"
	"github.com/optimist-light/optimist/types"
)

// Mock is a deterministic in-memory prover. Tests preload it with
// committees and updates, optionally override the hashes it claims
// (to model a dishonest prover), and script failures.
type Mock struct {
	id string

	mtx        sync.Mutex
	committees map[types.Period]types.Committee
	updates    map[types.Period]*types.SyncUpdate

	// claimed overrides the committee-derived hash for a period, letting a
	// mock assert a hash it holds no committee or update for.
	claimed map[types.Period]types.CommitteeHash

	// err, when set, is returned from every query.
	err error

	committeeCalls int
	hashCalls      int
	updateCalls    int
}

var _ provider.Prover = (*Mock)(nil)

// New creates a mock prover with the given committees and transition
// updates, both keyed by period.
func New(id string, committees map[types.Period]types.Committee, updates map[types.Period]*types.SyncUpdate) *Mock {
	if committees == nil {
		committees = make(map[types.Period]types.Committee)
	}
	if updates == nil {
		updates = make(map[types.Period]*types.SyncUpdate)
	}
	return &Mock{
		id:         id,
		committees: committees,
		updates:    updates,
		claimed:    make(map[types.Period]types.CommitteeHash),
	}
}

func (p *Mock) String() string {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	periods := make([]int, 0, len(p.committees))
	for period := range p.committees {
		periods = append(periods, int(period))
	}
	sort.Ints(periods)

	var sb strings.Builder
	for _, period := range periods {
		fmt.Fprintf(&sb, " %d:%v", period, p.committees[types.Period(period)].Hash())
	}
	return fmt.Sprintf("Mock{%s:%s}", p.id, sb.String())
}

// SetClaimedHash makes the mock claim the given hash at period regardless of
// which committee (if any) it actually holds.
func (p *Mock) SetClaimedHash(period types.Period, hash types.CommitteeHash) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.claimed[period] = hash
}

// FailWith makes every subsequent query return err. Passing nil restores
// normal operation.
func (p *Mock) FailWith(err error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.err = err
}

// DropUpdate removes the transition record for period, modelling a prover
// that claims a hash it cannot prove.
func (p *Mock) DropUpdate(period types.Period) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	delete(p.updates, period)
}

func (p *Mock) Committee(ctx context.Context, period types.Period) (types.Committee, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.committeeCalls++
	if p.err != nil {
		return nil, p.err
	}
	committee, ok := p.committees[period]
	if !ok {
		return nil, provider.ErrCommitteeNotFound
	}
	return committee, nil
}

func (p *Mock) CommitteeHash(ctx context.Context, period, head types.Period, batch uint64) (types.CommitteeHash, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.hashCalls++
	if p.err != nil {
		return types.CommitteeHash{}, p.err
	}
	if hash, ok := p.claimed[period]; ok {
		return hash, nil
	}
	committee, ok := p.committees[period]
	if !ok {
		return types.CommitteeHash{}, provider.ErrCommitteeNotFound
	}
	return committee.Hash(), nil
}

func (p *Mock) SyncUpdate(ctx context.Context, period types.Period) (*types.SyncUpdate, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.updateCalls++
	if p.err != nil {
		return nil, p.err
	}
	update, ok := p.updates[period]
	if !ok {
		return nil, provider.ErrCommitteeNotFound
	}
	return update, nil
}

// CommitteeCalls returns how many Committee queries the mock has served.
func (p *Mock) CommitteeCalls() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.committeeCalls
}

// HashCalls returns how many CommitteeHash queries the mock has served.
func (p *Mock) HashCalls() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.hashCalls
}

// UpdateCalls returns how many SyncUpdate queries the mock has served.
func (p *Mock) UpdateCalls() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.updateCalls
}
