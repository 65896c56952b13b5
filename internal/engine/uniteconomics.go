package engine

import "github.com/shopspring/decimal"

// UnitEconomics is the per-customer view: lifetime value against the
// blended cost of acquiring one customer.
type UnitEconomics struct {
	LTV           decimal.Decimal `json:"ltv"`
	CostPerSale   decimal.Decimal `json:"cost_per_sale"`
	LTVCACRatio   decimal.Decimal `json:"ltv_cac_ratio"`
	PaybackMonths decimal.Decimal `json:"payback_months"`
	RetentionRate decimal.Decimal `json:"retention_rate"`
}

// ComputeUnitEconomics derives LTV, LTV:CAC, and the payback period.
// Deferred cash is discounted by the retention rate (GRR): only the
// fraction expected to actually be collected counts toward LTV. When
// upfront cash is non-positive the payback period is reported as the
// sentinel PaybackSentinelMonths so alerting can flag it as infeasible.
func ComputeUnitEconomics(upfrontCash, deferredCash, retentionRate, costPerSale decimal.Decimal) (UnitEconomics, error) {
	if err := checkNonNegative("upfront_cash", upfrontCash); err != nil {
		return UnitEconomics{}, err
	}
	if err := checkNonNegative("deferred_cash", deferredCash); err != nil {
		return UnitEconomics{}, err
	}
	if err := checkRate("retention_rate", retentionRate); err != nil {
		return UnitEconomics{}, err
	}
	if err := checkNonNegative("cost_per_sale", costPerSale); err != nil {
		return UnitEconomics{}, err
	}

	ltv := upfrontCash.Add(deferredCash.Mul(retentionRate))

	payback := PaybackSentinelMonths
	if upfrontCash.Sign() > 0 {
		payback = ratio(costPerSale, upfrontCash.Div(twelve))
	}

	return UnitEconomics{
		LTV:           ltv,
		CostPerSale:   costPerSale,
		LTVCACRatio:   ratio(ltv, costPerSale),
		PaybackMonths: payback,
		RetentionRate: retentionRate,
	}, nil
}
