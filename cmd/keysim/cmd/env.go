package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solsocial/socialkeys/x/keys/keeper"
	"github.com/solsocial/socialkeys/x/keys/ledger"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// simAuthority is the module authority inside keysim.
const simAuthority = "authority"

// simEnv is a keys keeper over an in-memory multistore, settling value on the
// KV ledger and recording metrics in a private registry.
type simEnv struct {
	ctx      sdk.Context
	keeper   keeper.Keeper
	ledger   ledger.Ledger
	server   keeper.MsgServer
	registry *prometheus.Registry
}

func newSimEnv(logger log.Logger, start time.Time) (*simEnv, error) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(types.LedgerStoreKey)

	cms := rootmulti.NewStore(dbm.NewMemDB(), logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load in-memory store: %w", err)
	}

	header := cmtproto.Header{ChainID: "keysim", Height: 1, Time: start.UTC()}
	ctx := sdk.NewContext(cms, header, false, logger)

	l := ledger.NewLedger(runtime.NewKVStoreService(ledgerKey))
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), simAuthority, l)

	registry := prometheus.NewRegistry()
	metrics, err := keeper.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	k.SetMetrics(metrics)

	return &simEnv{
		ctx:      ctx,
		keeper:   k,
		ledger:   l,
		server:   keeper.NewMsgServerImpl(k),
		registry: registry,
	}, nil
}

// advance moves to the next block.
func (e *simEnv) advance(interval time.Duration) {
	e.ctx = e.ctx.
		WithBlockHeight(e.ctx.BlockHeight() + 1).
		WithBlockTime(e.ctx.BlockTime().Add(interval))
}

func (e *simEnv) balances() (map[string]uint64, error) {
	out := make(map[string]uint64)
	err := e.ledger.Balances.Walk(e.ctx, nil, func(account string, balance uint64) (bool, error) {
		out[account] = balance
		return false, nil
	})
	return out, err
}

// gatherMetrics flattens the registry into name{label=value,...} keys.
func (e *simEnv) gatherMetrics() (map[string]float64, error) {
	families, err := e.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}
			sort.Strings(labels)

			name := family.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[name] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[name+"_count"] = float64(metric.GetHistogram().GetSampleCount())
				out[name+"_sum"] = metric.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}
