package types

const (
	// ModuleName is the social keys module namespace.
	ModuleName = "keys"

	// StoreKey is the module KV store key.
	StoreKey = ModuleName

	// LedgerStoreKey backs the standalone transfer ledger used when x/bank is absent.
	LedgerStoreKey = "keys_ledger"

	// VaultAccount is the default account holding curve reserves and unpaid rewards.
	VaultAccount = "keys_vault"

	// PlatformAccount is the default protocol fee recipient.
	PlatformAccount = "keys_platform"
)

var (
	// AssetKeyPrefix stores assets by asset id.
	AssetKeyPrefix = []byte{0x01}

	// HoldingKeyPrefix stores holdings by (holder, asset).
	HoldingKeyPrefix = []byte{0x02}

	// TradeKeyPrefix stores settled trades by sequence.
	TradeKeyPrefix = []byte{0x03}

	// EngagementKeyPrefix stores engagement rewards by sequence.
	EngagementKeyPrefix = []byte{0x04}

	// TradeCountKey stores the next trade sequence.
	TradeCountKey = []byte{0x05}

	// EngagementCountKey stores the next engagement sequence.
	EngagementCountKey = []byte{0x06}

	// PlatformStateKey stores platform-wide totals.
	PlatformStateKey = []byte{0x07}

	// ParamsKey stores module parameters.
	ParamsKey = []byte{0x08}

	// HaltStateKey stores the trading pause switch.
	HaltStateKey = []byte{0x09}

	// HoldingByAssetKeyPrefix indexes holdings by asset.
	HoldingByAssetKeyPrefix = []byte{0x0A}

	// LedgerBalanceKeyPrefix stores standalone ledger balances by account.
	LedgerBalanceKeyPrefix = []byte{0x10}
)
