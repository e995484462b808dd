package amm

// TradeDirection tells which side of the pool the trader pays into.
type TradeDirection uint8

const (
	// BuyAsset spends the quote asset to acquire the base asset. The fee is
	// levied on the input.
	BuyAsset TradeDirection = iota + 1
	// SellAsset sells the base asset for the quote asset. The fee is levied
	// on the output.
	SellAsset
)

// DirectionFromBuy maps the isBuy flag used by callers onto a TradeDirection.
func DirectionFromBuy(isBuy bool) TradeDirection {
	if isBuy {
		return BuyAsset
	}
	return SellAsset
}

func (d TradeDirection) IsBuy() bool {
	return d == BuyAsset
}

func (d TradeDirection) String() string {
	switch d {
	case BuyAsset:
		return "buy"
	case SellAsset:
		return "sell"
	default:
		return "unknown"
	}
}
