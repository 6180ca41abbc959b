package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/indexes"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/solsocial/socialkeys/x/keys/pricing"
	"github.com/solsocial/socialkeys/x/keys/types"
)

// curveCacheSize bounds the number of distinct validated curves kept in memory.
const curveCacheSize = 256

// HoldingKey is (holder, asset).
type HoldingKey = collections.Pair[string, string]

// HoldingIndexes defines secondary indexes for holdings.
type HoldingIndexes struct {
	ByAsset *indexes.Multi[string, HoldingKey, string]
}

// IndexesList returns all indexes maintained for holdings.
func (i HoldingIndexes) IndexesList() []collections.Index[HoldingKey, string] {
	return []collections.Index[HoldingKey, string]{i.ByAsset}
}

// Keeper owns assets, holdings and the settlement ledger of the keys module.
type Keeper struct {
	storeService store.KVStoreService
	authority    string

	transfers types.TransferService
	metrics   *Metrics
	curves    *lru.Cache[types.CurveParams, pricing.Curve]

	Assets          collections.Map[string, string]
	Holdings        *collections.IndexedMap[HoldingKey, string, HoldingIndexes]
	Trades          collections.Map[uint64, string]
	Engagements     collections.Map[uint64, string]
	TradeCount      collections.Item[uint64]
	EngagementCount collections.Item[uint64]
	Platform        collections.Item[string]
	Params          collections.Item[string]
	Halt            collections.Item[string]
}

// NewKeeper creates a new keys keeper settling value through transfers.
func NewKeeper(
	storeService store.KVStoreService,
	authority string,
	transfers types.TransferService,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	holdingKeyCodec := collections.PairKeyCodec(collections.StringKey, collections.StringKey)

	// The size is a positive constant, so New cannot fail.
	curves, _ := lru.New[types.CurveParams, pricing.Curve](curveCacheSize)

	return Keeper{
		storeService: storeService,
		authority:    authority,
		transfers:    transfers,
		curves:       curves,
		Assets: collections.NewMap(
			sb,
			collections.NewPrefix(types.AssetKeyPrefix),
			"assets",
			collections.StringKey,
			collections.StringValue,
		),
		Holdings: collections.NewIndexedMap(
			sb,
			collections.NewPrefix(types.HoldingKeyPrefix),
			"holdings",
			holdingKeyCodec,
			collections.StringValue,
			HoldingIndexes{
				ByAsset: indexes.NewMulti(
					sb,
					collections.NewPrefix(types.HoldingByAssetKeyPrefix),
					"holdings_by_asset",
					collections.StringKey,
					holdingKeyCodec,
					func(key HoldingKey, _ string) (string, error) {
						return key.K2(), nil
					},
				),
			},
		),
		Trades: collections.NewMap(
			sb,
			collections.NewPrefix(types.TradeKeyPrefix),
			"trades",
			collections.Uint64Key,
			collections.StringValue,
		),
		Engagements: collections.NewMap(
			sb,
			collections.NewPrefix(types.EngagementKeyPrefix),
			"engagements",
			collections.Uint64Key,
			collections.StringValue,
		),
		TradeCount: collections.NewItem(
			sb,
			collections.NewPrefix(types.TradeCountKey),
			"trade_count",
			collections.Uint64Value,
		),
		EngagementCount: collections.NewItem(
			sb,
			collections.NewPrefix(types.EngagementCountKey),
			"engagement_count",
			collections.Uint64Value,
		),
		Platform: collections.NewItem(
			sb,
			collections.NewPrefix(types.PlatformStateKey),
			"platform_state",
			collections.StringValue,
		),
		Params: collections.NewItem(
			sb,
			collections.NewPrefix(types.ParamsKey),
			"params",
			collections.StringValue,
		),
		Halt: collections.NewItem(
			sb,
			collections.NewPrefix(types.HaltStateKey),
			"halt_state",
			collections.StringValue,
		),
	}
}

// SetMetrics wires the prometheus collectors updated on settlement.
func (k *Keeper) SetMetrics(metrics *Metrics) {
	k.metrics = metrics
}

// GetAuthority returns the keeper authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok || sdkCtx.Logger() == nil {
		return log.NewNopLogger()
	}
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

func (k Keeper) isAuthority(requester string) bool {
	return strings.TrimSpace(requester) != "" && strings.TrimSpace(requester) == strings.TrimSpace(k.authority)
}

// GetParams returns module params, falling back to defaults before genesis.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	raw, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	if err != nil {
		return types.Params{}, err
	}
	var params types.Params
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return types.Params{}, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}

func (k Keeper) setParams(ctx context.Context, params types.Params) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return k.Params.Set(ctx, string(raw))
}

// GetAsset returns the asset or ErrAssetNotFound.
func (k Keeper) GetAsset(ctx context.Context, assetID string) (types.Asset, error) {
	raw, err := k.Assets.Get(ctx, strings.TrimSpace(assetID))
	if errors.Is(err, collections.ErrNotFound) {
		return types.Asset{}, types.ErrAssetNotFound.Wrapf("asset %s", assetID)
	}
	if err != nil {
		return types.Asset{}, err
	}
	return decodeAsset(raw)
}

func (k Keeper) setAsset(ctx context.Context, asset types.Asset) error {
	raw, err := json.Marshal(asset)
	if err != nil {
		return err
	}
	return k.Assets.Set(ctx, asset.AssetID, string(raw))
}

func decodeAsset(raw string) (types.Asset, error) {
	var asset types.Asset
	if err := json.Unmarshal([]byte(raw), &asset); err != nil {
		return types.Asset{}, fmt.Errorf("decode asset: %w", err)
	}
	return asset, nil
}

// GetAllAssets returns every asset in key order.
func (k Keeper) GetAllAssets(ctx context.Context) ([]types.Asset, error) {
	var assets []types.Asset
	err := k.Assets.Walk(ctx, nil, func(_ string, raw string) (bool, error) {
		asset, err := decodeAsset(raw)
		if err != nil {
			return true, err
		}
		assets = append(assets, asset)
		return false, nil
	})
	return assets, err
}

// GetHolding returns the holding of holderID in assetID, if any.
func (k Keeper) GetHolding(ctx context.Context, holderID, assetID string) (types.Holding, bool, error) {
	raw, err := k.Holdings.Get(ctx, collections.Join(strings.TrimSpace(holderID), strings.TrimSpace(assetID)))
	if errors.Is(err, collections.ErrNotFound) {
		return types.Holding{}, false, nil
	}
	if err != nil {
		return types.Holding{}, false, err
	}
	holding, err := decodeHolding(raw)
	if err != nil {
		return types.Holding{}, false, err
	}
	return holding, true, nil
}

func (k Keeper) setHolding(ctx context.Context, holding types.Holding) error {
	raw, err := json.Marshal(holding)
	if err != nil {
		return err
	}
	return k.Holdings.Set(ctx, collections.Join(holding.HolderID, holding.AssetID), string(raw))
}

func (k Keeper) removeHolding(ctx context.Context, holding types.Holding) error {
	return k.Holdings.Remove(ctx, collections.Join(holding.HolderID, holding.AssetID))
}

func decodeHolding(raw string) (types.Holding, error) {
	var holding types.Holding
	if err := json.Unmarshal([]byte(raw), &holding); err != nil {
		return types.Holding{}, fmt.Errorf("decode holding: %w", err)
	}
	return holding, nil
}

// GetHoldingsByHolder returns every holding of holderID.
func (k Keeper) GetHoldingsByHolder(ctx context.Context, holderID string) ([]types.Holding, error) {
	rng := collections.NewPrefixedPairRange[string, string](strings.TrimSpace(holderID))
	var holdings []types.Holding
	err := k.Holdings.Walk(ctx, rng, func(_ HoldingKey, raw string) (bool, error) {
		holding, err := decodeHolding(raw)
		if err != nil {
			return true, err
		}
		holdings = append(holdings, holding)
		return false, nil
	})
	return holdings, err
}

// GetHoldingsByAsset returns every holding of assetID through the asset index.
func (k Keeper) GetHoldingsByAsset(ctx context.Context, assetID string) ([]types.Holding, error) {
	iter, err := k.Holdings.Indexes.ByAsset.MatchExact(ctx, strings.TrimSpace(assetID))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var holdings []types.Holding
	for ; iter.Valid(); iter.Next() {
		key, err := iter.PrimaryKey()
		if err != nil {
			return nil, err
		}
		raw, err := k.Holdings.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		holding, err := decodeHolding(raw)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}
	return holdings, nil
}

// GetAllHoldings returns every holding in key order.
func (k Keeper) GetAllHoldings(ctx context.Context) ([]types.Holding, error) {
	var holdings []types.Holding
	err := k.Holdings.Walk(ctx, nil, func(_ HoldingKey, raw string) (bool, error) {
		holding, err := decodeHolding(raw)
		if err != nil {
			return true, err
		}
		holdings = append(holdings, holding)
		return false, nil
	})
	return holdings, err
}

// GetTrade returns the settled trade with id.
func (k Keeper) GetTrade(ctx context.Context, id uint64) (types.Trade, error) {
	raw, err := k.Trades.Get(ctx, id)
	if err != nil {
		return types.Trade{}, fmt.Errorf("trade %d not found: %w", id, err)
	}
	var trade types.Trade
	if err := json.Unmarshal([]byte(raw), &trade); err != nil {
		return types.Trade{}, fmt.Errorf("decode trade: %w", err)
	}
	return trade, nil
}

// GetAllTrades returns every settled trade in sequence order.
func (k Keeper) GetAllTrades(ctx context.Context) ([]types.Trade, error) {
	var trades []types.Trade
	err := k.Trades.Walk(ctx, nil, func(_ uint64, raw string) (bool, error) {
		var trade types.Trade
		if err := json.Unmarshal([]byte(raw), &trade); err != nil {
			return true, fmt.Errorf("decode trade: %w", err)
		}
		trades = append(trades, trade)
		return false, nil
	})
	return trades, err
}

func (k Keeper) appendTrade(ctx context.Context, trade types.Trade) (types.Trade, error) {
	id, err := nextSequence(ctx, k.TradeCount)
	if err != nil {
		return types.Trade{}, err
	}
	trade.ID = id
	raw, err := json.Marshal(trade)
	if err != nil {
		return types.Trade{}, err
	}
	return trade, k.Trades.Set(ctx, id, string(raw))
}

// GetEngagement returns the engagement reward with id.
func (k Keeper) GetEngagement(ctx context.Context, id uint64) (types.EngagementReward, error) {
	raw, err := k.Engagements.Get(ctx, id)
	if err != nil {
		return types.EngagementReward{}, fmt.Errorf("engagement %d not found: %w", id, err)
	}
	var record types.EngagementReward
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return types.EngagementReward{}, fmt.Errorf("decode engagement: %w", err)
	}
	return record, nil
}

// GetAllEngagements returns every engagement reward in sequence order.
func (k Keeper) GetAllEngagements(ctx context.Context) ([]types.EngagementReward, error) {
	var records []types.EngagementReward
	err := k.Engagements.Walk(ctx, nil, func(_ uint64, raw string) (bool, error) {
		var record types.EngagementReward
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return true, fmt.Errorf("decode engagement: %w", err)
		}
		records = append(records, record)
		return false, nil
	})
	return records, err
}

func (k Keeper) appendEngagement(ctx context.Context, record types.EngagementReward) (types.EngagementReward, error) {
	id, err := nextSequence(ctx, k.EngagementCount)
	if err != nil {
		return types.EngagementReward{}, err
	}
	record.ID = id
	raw, err := json.Marshal(record)
	if err != nil {
		return types.EngagementReward{}, err
	}
	return record, k.Engagements.Set(ctx, id, string(raw))
}

// GetPlatformState returns the platform-wide totals.
func (k Keeper) GetPlatformState(ctx context.Context) (types.PlatformState, error) {
	raw, err := k.Platform.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.PlatformState{}, nil
	}
	if err != nil {
		return types.PlatformState{}, err
	}
	var state types.PlatformState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return types.PlatformState{}, fmt.Errorf("decode platform state: %w", err)
	}
	return state, nil
}

func (k Keeper) setPlatformState(ctx context.Context, state types.PlatformState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return k.Platform.Set(ctx, string(raw))
}

func nextSequence(ctx context.Context, counter collections.Item[uint64]) (uint64, error) {
	count, err := counter.Get(ctx)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		count = 0
	case err != nil:
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if count, err = pricing.Add(count, 1); err != nil {
		return 0, err
	}
	if err := counter.Set(ctx, count); err != nil {
		return 0, err
	}
	return count, nil
}

// settle runs fn against a cached store and commits only if fn succeeds, so a
// rejected operation leaves records and ledger balances untouched.
func (k Keeper) settle(ctx context.Context, fn func(ctx sdk.Context) error) error {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok {
		return fmt.Errorf("settlement requires an sdk context")
	}
	cacheCtx, write := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func (k Keeper) transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	if k.transfers == nil {
		return types.ErrTransferFailure.Wrap("transfer service is not configured")
	}
	if err := k.transfers.Transfer(ctx, from, to, amount); err != nil {
		if errors.Is(err, types.ErrTransferFailure) {
			return err
		}
		return types.ErrTransferFailure.Wrapf("%s -> %s (%d): %s", from, to, amount, err)
	}
	return nil
}

func unwrapSDKContext(ctx context.Context) (sdk.Context, bool) {
	if ctx == nil {
		return sdk.Context{}, false
	}
	if sdkCtx, ok := ctx.(sdk.Context); ok {
		return sdkCtx, true
	}
	if val := ctx.Value(sdk.SdkContextKey); val != nil {
		if sdkCtx, ok := val.(sdk.Context); ok {
			return sdkCtx, true
		}
	}
	return sdk.Context{}, false
}

func contextNow(ctx context.Context) (sdk.Context, int64) {
	sdkCtx, _ := unwrapSDKContext(ctx)
	return sdkCtx, sdkCtx.BlockTime().Unix()
}

func emitEventIfPossible(ctx sdk.Context, event sdk.Event) {
	if em := ctx.EventManager(); em != nil {
		em.EmitEvent(event)
	}
}
