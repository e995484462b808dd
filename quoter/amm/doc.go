/*
Package amm predicts the outcome of a swap against the conditional-token
constant-product pool before any transaction is sent.

Every amount is converted to a scaled integer (nine fractional digits) and all
arithmetic runs on math/big with floor division, which is how the ledger
truncates. A prediction made here therefore matches settlement to the unit.

The pool charges a 30 bps taker fee. Where the fee is taken depends on the
direction of the trade:

	BuyAsset   quote in, asset out   fee taken from the input before it enters the pool
	SellAsset  asset in, quote out   fee taken from the output, the remainder stays in the pool

The entry point is CalculateSwapBreakdown. Pool and SimulateTrades chain
several trades by feeding the new reserves of one trade into the next.

Nothing in this package performs I/O or keeps state between calls, so it can
be called concurrently.
*/
package amm
