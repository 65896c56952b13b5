package engine

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)

	// PaybackSentinelMonths is reported when upfront cash is zero or negative
	// and a payback period cannot be computed. Alerting treats it as
	// "infeasible"; it is far above any realistic payback horizon.
	PaybackSentinelMonths = decimal.NewFromInt(999)
)

// ratio is the division guard used for every derived rate in the engine:
// a non-positive denominator yields a defined zero instead of a panic or
// an infinity leaking into aggregates.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.Sign() <= 0 {
		return decimal.Zero
	}
	return num.Div(den)
}

func checkNonNegative(field string, v decimal.Decimal) error {
	if v.Sign() < 0 {
		return invalidInputf(field, "must not be negative, got %s", v.String())
	}
	return nil
}

func checkPct(field string, v decimal.Decimal) error {
	if v.Sign() < 0 || v.GreaterThan(hundred) {
		return invalidInputf(field, "must be within [0,100], got %s", v.String())
	}
	return nil
}

func checkRate(field string, v decimal.Decimal) error {
	if v.Sign() < 0 || v.GreaterThan(decimal.NewFromInt(1)) {
		return invalidInputf(field, "must be within [0,1], got %s", v.String())
	}
	return nil
}
