// Package twap mirrors the pool's on-chain TWAP oracle so a client can predict
// the observation a trade will record.
//
// Prices are quote units per base unit scaled by 1e12, in raw token units.
// Observations may only move by MaxObservationChangePerUpdate per update and
// updates are accepted at most once every UpdateIntervalSeconds. All values
// follow the ledger's u128 semantics: the weighted observation saturates and
// the aggregator wraps.
package twap

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// UpdateIntervalSeconds is the minimum spacing between two recorded
// observations.
const UpdateIntervalSeconds = 60

var (
	// PriceScale is the fixed-point scale of oracle prices.
	PriceScale = uint256.NewInt(1_000_000_000_000)

	maxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

var (
	// ErrNotStarted means the oracle has not been updated past its start delay.
	ErrNotStarted = errors.New("twap: oracle has not started")
	// ErrNoObservations means nothing has been aggregated yet.
	ErrNoObservations = errors.New("twap: aggregator is empty")
	// ErrOutOfRange means an amount does not fit the ledger's u64 reserves.
	ErrOutOfRange = errors.New("twap: amount out of u64 range")
)

// Oracle is a value copy of the ledger's oracle account. Update never
// mutates its receiver.
type Oracle struct {
	Aggregator                    *uint256.Int
	LastUpdatedTimestamp          int64
	CreatedAtTimestamp            int64
	LastPrice                     *uint256.Int
	LastObservation               *uint256.Int
	MaxObservationChangePerUpdate *uint256.Int
	InitialObservation            *uint256.Int
	StartDelaySeconds             uint32
}

// NewOracle returns the oracle as the ledger initialises it at pool creation.
func NewOracle(now int64, initialObservation, maxChangePerUpdate *uint256.Int, startDelaySeconds uint32) Oracle {
	return Oracle{
		Aggregator:                    new(uint256.Int),
		LastUpdatedTimestamp:          now,
		CreatedAtTimestamp:            now,
		LastPrice:                     new(uint256.Int),
		LastObservation:               initialObservation.Clone(),
		MaxObservationChangePerUpdate: maxChangePerUpdate.Clone(),
		InitialObservation:            initialObservation.Clone(),
		StartDelaySeconds:             startDelaySeconds,
	}
}

// Price returns quoteReserves * 1e12 / baseReserves.
func Price(quoteReserves, baseReserves uint64) *uint256.Int {
	if baseReserves == 0 {
		return new(uint256.Int)
	}
	price := new(uint256.Int).Mul(uint256.NewInt(quoteReserves), PriceScale)
	return price.Div(price, uint256.NewInt(baseReserves))
}

// Update records an observation for the given pre-trade reserves at now.
// It returns the updated oracle and true, or the unchanged oracle and false
// when the update interval has not elapsed or a reserve is empty.
func (o Oracle) Update(quoteReserves, baseReserves uint64, now int64) (Oracle, bool) {
	if now < o.LastUpdatedTimestamp+UpdateIntervalSeconds {
		return o, false
	}
	if quoteReserves == 0 || baseReserves == 0 {
		return o, false
	}

	price := Price(quoteReserves, baseReserves)
	observation := clampObservation(price, o.LastObservation, o.MaxObservationChangePerUpdate)

	aggregator := o.Aggregator.Clone()
	twapStart := o.CreatedAtTimestamp + int64(o.StartDelaySeconds)
	if now > twapStart {
		// The first update after the delay only counts time since the delay ended.
		effectiveLast := max(o.LastUpdatedTimestamp, twapStart)
		elapsed := uint256.NewInt(uint64(now - effectiveLast))
		aggregator = wrappingAdd(aggregator, saturatingMul(observation, elapsed))
	}

	return Oracle{
		Aggregator:                    aggregator,
		LastUpdatedTimestamp:          now,
		CreatedAtTimestamp:            o.CreatedAtTimestamp,
		LastPrice:                     price,
		LastObservation:               observation,
		MaxObservationChangePerUpdate: o.MaxObservationChangePerUpdate.Clone(),
		InitialObservation:            o.InitialObservation.Clone(),
		StartDelaySeconds:             o.StartDelaySeconds,
	}, true
}

// TWAP returns the time-weighted average observation since the start delay.
func (o Oracle) TWAP() (*uint256.Int, error) {
	start := o.CreatedAtTimestamp + int64(o.StartDelaySeconds)
	if o.LastUpdatedTimestamp <= start {
		return nil, ErrNotStarted
	}
	if o.Aggregator.IsZero() {
		return nil, ErrNoObservations
	}
	elapsed := uint256.NewInt(uint64(o.LastUpdatedTimestamp - start))
	return new(uint256.Int).Div(o.Aggregator, elapsed), nil
}

// clampObservation moves last toward price by at most maxChange.
func clampObservation(price, last, maxChange *uint256.Int) *uint256.Int {
	if price.Gt(last) {
		ceiling := saturatingAdd(last, maxChange)
		if price.Lt(ceiling) {
			return price.Clone()
		}
		return ceiling
	}
	floor := new(uint256.Int)
	if last.Gt(maxChange) {
		floor.Sub(last, maxChange)
	}
	if price.Gt(floor) {
		return price.Clone()
	}
	return floor
}

func saturatingAdd(a, b *uint256.Int) *uint256.Int {
	sum := new(uint256.Int).Add(a, b)
	if sum.Gt(maxU128) || sum.Lt(a) {
		return maxU128.Clone()
	}
	return sum
}

func saturatingMul(a, b *uint256.Int) *uint256.Int {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || product.Gt(maxU128) {
		return maxU128.Clone()
	}
	return product
}

func wrappingAdd(a, b *uint256.Int) *uint256.Int {
	sum := new(uint256.Int).Add(a, b)
	return sum.And(sum, maxU128)
}

// RawUnits converts a human amount into integer token units, truncating any
// digits beyond the token's precision.
func RawUnits(amount decimal.Decimal, decimals int32) (uint64, error) {
	raw := amount.Shift(decimals).Truncate(0)
	if raw.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, amount)
	}
	v := raw.BigInt()
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, amount)
	}
	return v.Uint64(), nil
}

// UIPrice converts an oracle price into quote per base in human units:
// price * 10^(baseDecimals - quoteDecimals) / 1e12.
func UIPrice(price *uint256.Int, baseDecimals, quoteDecimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(price.ToBig(), baseDecimals-quoteDecimals-12)
}
