package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Arithmetic failures.
var (
	ErrOverflow     = errorsmod.Register(ModuleName, 2, "arithmetic overflow")
	ErrUnderflow    = errorsmod.Register(ModuleName, 3, "arithmetic underflow")
	ErrDivideByZero = errorsmod.Register(ModuleName, 4, "division by zero")
)

// Validation failures.
var (
	ErrInvalidAmount        = errorsmod.Register(ModuleName, 10, "invalid amount")
	ErrInsufficientBalance  = errorsmod.Register(ModuleName, 11, "insufficient balance")
	ErrInsufficientSupply   = errorsmod.Register(ModuleName, 12, "insufficient supply")
	ErrAssetInactive        = errorsmod.Register(ModuleName, 13, "asset is inactive")
	ErrSupplyExceedsMax     = errorsmod.Register(ModuleName, 14, "supply exceeds max supply")
	ErrAssetNotFound        = errorsmod.Register(ModuleName, 15, "asset not found")
	ErrAssetExists          = errorsmod.Register(ModuleName, 16, "asset already exists")
	ErrFoundingUnitReserved = errorsmod.Register(ModuleName, 17, "founding unit is reserved for the creator")
	ErrInsufficientReserve  = errorsmod.Register(ModuleName, 18, "insufficient curve reserve")
	ErrInvalidEngagement    = errorsmod.Register(ModuleName, 19, "invalid engagement")
	ErrInvalidAddress       = errorsmod.Register(ModuleName, 20, "invalid address")
)

// Slippage failures.
var (
	ErrCostExceeded         = errorsmod.Register(ModuleName, 30, "cost exceeds max cost")
	ErrProceedsBelowMinimum = errorsmod.Register(ModuleName, 31, "proceeds below minimum")
)

// Configuration failures.
var (
	ErrInvalidFeeSplit    = errorsmod.Register(ModuleName, 40, "invalid fee split")
	ErrInvalidCurveParams = errorsmod.Register(ModuleName, 41, "invalid curve params")
	ErrInvalidParams      = errorsmod.Register(ModuleName, 42, "invalid params")
)

// Collaborator and authority failures.
var (
	ErrTransferFailure = errorsmod.Register(ModuleName, 50, "transfer failed")
	ErrUnauthorized    = errorsmod.Register(ModuleName, 51, "unauthorized")
	ErrTradingHalted   = errorsmod.Register(ModuleName, 52, "trading is halted")
)

// IsArithmetic reports whether err is an overflow, underflow or division by zero.
func IsArithmetic(err error) bool {
	return isAny(err, ErrOverflow, ErrUnderflow, ErrDivideByZero)
}

// IsValidation reports whether err rejected the request during validation.
func IsValidation(err error) bool {
	return isAny(err,
		ErrInvalidAmount, ErrInsufficientBalance, ErrInsufficientSupply, ErrAssetInactive,
		ErrSupplyExceedsMax, ErrAssetNotFound, ErrAssetExists, ErrFoundingUnitReserved,
		ErrInsufficientReserve, ErrInvalidEngagement, ErrInvalidAddress,
	)
}

// IsSlippage reports whether err is a caller-supplied bound violation.
func IsSlippage(err error) bool {
	return isAny(err, ErrCostExceeded, ErrProceedsBelowMinimum)
}

// IsConfig reports whether err is a curve, fee or params configuration error.
func IsConfig(err error) bool {
	return isAny(err, ErrInvalidFeeSplit, ErrInvalidCurveParams, ErrInvalidParams)
}

// RejectReason maps an error to a short label used in metrics and logs.
func RejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsArithmetic(err):
		return "arithmetic"
	case IsSlippage(err):
		return "slippage"
	case IsConfig(err):
		return "config"
	case errors.Is(err, ErrTransferFailure):
		return "transfer"
	case errors.Is(err, ErrTradingHalted):
		return "halted"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case IsValidation(err):
		return "validation"
	default:
		return "other"
	}
}

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
