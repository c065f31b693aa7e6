package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/optimist-light/optimist/light/provider"
	"github.com/optimist-light/optimist/types"
)

const defaultTimeout = 10 * time.Second

// http prover queries a remote prover's REST surface:
//
//	GET /light/committee/{period}
//	GET /light/committee_hash/{period}?head=H&batch=B
//	GET /light/sync_update/{period}
//
// Transport failures surface as provider.ErrProverUnreachable, a 404 as
// provider.ErrCommitteeNotFound, and undecodable bodies as
// provider.ErrBadCommittee. Per-request timeouts live here; the client core
// has no timeout policy of its own.
type http struct {
	remote string
	client *nethttp.Client
}

var _ provider.Prover = (*http)(nil)

// New creates an HTTP prover for the given remote. If no scheme is provided
// in the remote URL, http will be used by default.
func New(remote string) (provider.Prover, error) {
	if !strings.Contains(remote, "://") {
		remote = "http://" + remote
	}
	u, err := url.Parse(remote)
	if err != nil {
		return nil, fmt.Errorf("invalid remote %q: %w", remote, err)
	}

	return NewWithClient(u.String(), &nethttp.Client{Timeout: defaultTimeout}), nil
}

// NewWithClient allows you to provide a custom http client.
func NewWithClient(remote string, client *nethttp.Client) provider.Prover {
	return &http{
		remote: strings.TrimRight(remote, "/"),
		client: client,
	}
}

func (p *http) String() string {
	return fmt.Sprintf("http{%s}", p.remote)
}

type committeeResponse struct {
	Committee types.Committee `json:"committee"`
}

type committeeHashResponse struct {
	Hash types.CommitteeHash `json:"hash"`
}

type syncUpdateResponse struct {
	Update *types.SyncUpdate `json:"update"`
}

func (p *http) Committee(ctx context.Context, period types.Period) (types.Committee, error) {
	var res committeeResponse
	if err := p.get(ctx, fmt.Sprintf("/light/committee/%d", period), &res); err != nil {
		return nil, err
	}
	if err := res.Committee.ValidateBasic(); err != nil {
		return nil, provider.ErrBadCommittee{Reason: err}
	}
	return res.Committee, nil
}

func (p *http) CommitteeHash(ctx context.Context, period, head types.Period, batch uint64) (types.CommitteeHash, error) {
	path := fmt.Sprintf("/light/committee_hash/%d?head=%d&batch=%d", period, head, batch)
	var res committeeHashResponse
	if err := p.get(ctx, path, &res); err != nil {
		return types.CommitteeHash{}, err
	}
	if res.Hash.IsZero() {
		return types.CommitteeHash{}, provider.ErrBadCommittee{Reason: fmt.Errorf("zero hash for period %d", period)}
	}
	return res.Hash, nil
}

func (p *http) SyncUpdate(ctx context.Context, period types.Period) (*types.SyncUpdate, error) {
	var res syncUpdateResponse
	if err := p.get(ctx, fmt.Sprintf("/light/sync_update/%d", period), &res); err != nil {
		return nil, err
	}
	if err := res.Update.ValidateBasic(); err != nil {
		return nil, provider.ErrBadCommittee{Reason: err}
	}
	return res.Update, nil
}

// get issues a GET request against the prover and decodes the JSON response
// into out.
func (p *http) get(ctx context.Context, path string, out interface{}) error {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, p.remote+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrProverUnreachable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrProverUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == nethttp.StatusNotFound:
		return provider.ErrCommitteeNotFound
	case resp.StatusCode != nethttp.StatusOK:
		return fmt.Errorf("%w: status %d", provider.ErrProverUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrProverUnreachable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return provider.ErrBadCommittee{Reason: err}
	}
	return nil
}
