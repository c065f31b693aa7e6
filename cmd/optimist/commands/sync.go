package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	dbm "github.com/tendermint/tm-db"

	"github.com/optimist-light/optimist/light"
	"github.com/optimist-light/optimist/light/provider"
	lighthttp "github.com/optimist-light/optimist/light/provider/http"
	dbs "github.com/optimist-light/optimist/light/store/db"
	"github.com/optimist-light/optimist/types"
)

// SyncCmd walks committee rotations from the genesis anchor to the chain's
// head against a set of untrusted provers.
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync committee rotations from genesis to the chain head",
	Long: `Sync committee rotations from genesis to the chain head.

The genesis file provides the trust anchor: the period and full membership of
a committee obtained out of band (e.g. from the chain's ceremony output).
Everything after it is fetched from the configured provers, which are
untrusted individually; the sync is secure as long as at least one prover is
honest and reachable.

Progress is checkpointed under the home directory, so an interrupted sync
resumes where it left off.`,
	RunE: runSync,
	Example: `optimist sync --genesis-file genesis.json \
	--provers http://prover1:8545,http://prover2:8545`,
}

var (
	proverAddrsJoined string
	genesisFile       string
	headPeriod        uint64
	homeDir           string
	batchSize         uint64
	pruningSize       uint16
	prometheusAddr    string
)

func init() {
	SyncCmd.Flags().StringVarP(&proverAddrsJoined, "provers", "p", "",
		"prover endpoints to sync against, comma-separated")
	SyncCmd.Flags().StringVar(&genesisFile, "genesis-file", "genesis.json",
		"path to the genesis committee file (the trust anchor)")
	SyncCmd.Flags().Uint64Var(&headPeriod, "head", 0,
		"sync up to this period instead of deriving the head from genesis time")
	SyncCmd.Flags().StringVar(&homeDir, "home-dir", os.ExpandEnv(filepath.Join("$HOME", ".optimist")),
		"home directory for the checkpoint store")
	SyncCmd.Flags().Uint64Var(&batchSize, "batch-size", light.DefaultBatchSize,
		"batch hint forwarded to provers on hash requests")
	SyncCmd.Flags().Uint16Var(&pruningSize, "pruning-size", 1000,
		"maximum number of checkpoints to keep, 0 to keep all")
	SyncCmd.Flags().StringVar(&prometheusAddr, "prometheus-laddr", "",
		"serve Prometheus metrics on this address (empty disables)")
}

// genesisDoc is the on-disk trust anchor.
type genesisDoc struct {
	GenesisTime time.Time       `json:"genesis_time"`
	Period      types.Period    `json:"period"`
	Committee   types.Committee `json:"committee"`
}

func runSync(cmd *cobra.Command, args []string) error {
	doc, err := loadGenesisDoc(genesisFile)
	if err != nil {
		return err
	}
	if doc.GenesisTime.IsZero() && headPeriod == 0 {
		return errors.New("the genesis file carries no genesis_time; pass --head explicitly")
	}

	var provers []provider.Prover
	for _, addr := range strings.Split(proverAddrsJoined, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		p, err := lighthttp.New(addr)
		if err != nil {
			return fmt.Errorf("prover %q: %w", addr, err)
		}
		provers = append(provers, p)
	}
	if len(provers) == 0 {
		return errors.New("no provers given. Run the command: optimist sync --help for more information")
	}

	db, err := dbm.NewGoLevelDB("optimist-light", homeDir)
	if err != nil {
		return fmt.Errorf("can't open the checkpoint db: %w", err)
	}
	defer db.Close()

	headFn := func(context.Context) (types.Period, error) {
		if headPeriod > 0 {
			return types.Period(headPeriod), nil
		}
		return types.PeriodAt(doc.GenesisTime, time.Now()), nil
	}

	options := []light.Option{
		light.WithLogger(logger),
		light.WithBatchSize(batchSize),
		light.WithPruningSize(pruningSize),
	}
	if prometheusAddr != "" {
		options = append(options, light.WithMetrics(light.PrometheusMetrics("optimist")))
		go func() {
			srv := &http.Server{Addr: prometheusAddr, Handler: promhttp.Handler()}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("prometheus server failed", "err", err)
			}
		}()
	}

	c, err := light.NewClient(
		doc.Period,
		doc.Committee,
		headFn,
		light.NewBLSVerifier(),
		provers,
		dbs.New(db, "optimist"),
		options...,
	)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	committee, idx, err := c.SyncFromGenesis(ctx)
	if err != nil {
		return err
	}

	logger.Info("sync complete",
		"prover", idx, "members", len(committee), "took", time.Since(start).String())
	fmt.Printf("committee hash: %s (served by prover #%d)\n", committee.Hash(), idx)
	return nil
}

func loadGenesisDoc(path string) (*genesisDoc, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, fmt.Errorf("parse genesis file: %w", err)
	}
	if err := doc.Committee.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("genesis committee: %w", err)
	}
	return &doc, nil
}
