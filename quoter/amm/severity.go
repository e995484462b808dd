package amm

import "github.com/shopspring/decimal"

// ImpactSeverity buckets the magnitude of a price impact for display.
type ImpactSeverity string

const (
	SeverityNone     ImpactSeverity = "none"     // < 1%
	SeverityLow      ImpactSeverity = "low"      // 1-3%
	SeverityModerate ImpactSeverity = "moderate" // 3-5%
	SeverityHigh     ImpactSeverity = "high"     // 5-10%
	SeverityExtreme  ImpactSeverity = "extreme"  // >= 10%
)

var (
	impactLow      = decimal.NewFromInt(1)
	impactModerate = decimal.NewFromInt(3)
	impactHigh     = decimal.NewFromInt(5)
	impactExtreme  = decimal.NewFromInt(10)
)

// ClassifyImpact returns the severity of a signed impact percentage. Buys
// and sells of the same magnitude land in the same bucket.
func ClassifyImpact(priceImpact decimal.Decimal) ImpactSeverity {
	magnitude := priceImpact.Abs()
	switch {
	case magnitude.LessThan(impactLow):
		return SeverityNone
	case magnitude.LessThan(impactModerate):
		return SeverityLow
	case magnitude.LessThan(impactHigh):
		return SeverityModerate
	case magnitude.LessThan(impactExtreme):
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}
