package engine

import "github.com/shopspring/decimal"

// PnLInput gathers the monthly cost and revenue lines feeding the P&L.
// GovFeePct is a percentage of gross revenue in [0,100].
type PnLInput struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	TeamBase     decimal.Decimal `json:"team_base"`
	Commissions  decimal.Decimal `json:"commissions"`
	Marketing    decimal.Decimal `json:"marketing"`
	FixedOpex    decimal.Decimal `json:"fixed_opex"`
	GovFeePct    decimal.Decimal `json:"gov_fee_pct"`
}

// PnLResult is the derived monthly P&L. Margin percentages are defined as
// zero whenever net revenue is non-positive.
type PnLResult struct {
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	GovFees         decimal.Decimal `json:"gov_fees"`
	NetRevenue      decimal.Decimal `json:"net_revenue"`
	COGS            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	GrossMarginPct  decimal.Decimal `json:"gross_margin_pct"`
	Marketing       decimal.Decimal `json:"marketing"`
	FixedOpex       decimal.Decimal `json:"fixed_opex"`
	TotalOpex       decimal.Decimal `json:"total_opex"`
	EBITDA          decimal.Decimal `json:"ebitda"`
	EBITDAMarginPct decimal.Decimal `json:"ebitda_margin_pct"`
}

// ComputePnL derives the P&L lines. Stateless; recomputed per evaluation.
func ComputePnL(in PnLInput) (PnLResult, error) {
	for _, check := range []struct {
		field string
		value decimal.Decimal
	}{
		{"gross_revenue", in.GrossRevenue},
		{"team_base", in.TeamBase},
		{"commissions", in.Commissions},
		{"marketing", in.Marketing},
		{"fixed_opex", in.FixedOpex},
	} {
		if err := checkNonNegative(check.field, check.value); err != nil {
			return PnLResult{}, err
		}
	}
	if err := checkPct("gov_fee_pct", in.GovFeePct); err != nil {
		return PnLResult{}, err
	}

	govFees := in.GrossRevenue.Mul(in.GovFeePct.Div(hundred))
	netRevenue := in.GrossRevenue.Sub(govFees)
	cogs := in.TeamBase.Add(in.Commissions)
	grossProfit := netRevenue.Sub(cogs)
	totalOpex := in.Marketing.Add(in.FixedOpex)
	ebitda := grossProfit.Sub(totalOpex)

	return PnLResult{
		GrossRevenue:    in.GrossRevenue,
		GovFees:         govFees,
		NetRevenue:      netRevenue,
		COGS:            cogs,
		GrossProfit:     grossProfit,
		GrossMarginPct:  ratio(grossProfit, netRevenue).Mul(hundred),
		Marketing:       in.Marketing,
		FixedOpex:       in.FixedOpex,
		TotalOpex:       totalOpex,
		EBITDA:          ebitda,
		EBITDAMarginPct: ratio(ebitda, netRevenue).Mul(hundred),
	}, nil
}
