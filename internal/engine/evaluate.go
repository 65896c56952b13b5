package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one evaluation's complete derived output: an immutable value
// the UI, persistence, and stream layers consume as-is.
type Snapshot struct {
	Deal          DealEconomics    `json:"deal_economics"`
	Channels      []ChannelFunnel  `json:"channels"`
	GTM           GTMMetrics       `json:"gtm"`
	Commission    CommissionResult `json:"commission"`
	PnL           PnLResult        `json:"pnl"`
	UnitEconomics UnitEconomics    `json:"unit_economics"`

	ConfigHash  string    `json:"config_hash"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Evaluate runs the full dependency chain over one normalized config:
// resolver, cash split, per-channel funnels, aggregation, commissions,
// P&L, and unit economics. It is a pure function of its input; every call
// recomputes from scratch.
func Evaluate(cfg ScenarioConfig) (*Snapshot, error) {
	cfg = cfg.Normalize()

	deal, err := ResolveDealEconomics(cfg.Deal)
	if err != nil {
		return nil, err
	}
	base := deal.CommissionBase()

	funnels := make([]ChannelFunnel, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		if !ch.IsEnabled() {
			continue
		}
		f, err := RunFunnel(ch, base)
		if err != nil {
			return nil, err
		}
		funnels = append(funnels, f)
	}
	gtm := Aggregate(funnels)

	commission, err := ComputeCommissions(ModeMonthly, gtm.TotalSales, cfg.Compensation, deal)
	if err != nil {
		return nil, err
	}

	pnl, err := ComputePnL(PnLInput{
		GrossRevenue: gtm.TotalRevenue,
		TeamBase:     TeamBaseCost(cfg.Compensation),
		Commissions:  commission.Total,
		Marketing:    gtm.TotalSpend,
		FixedOpex:    cfg.OperatingCosts.FixedMonthly,
		GovFeePct:    cfg.OperatingCosts.GovFeePct,
	})
	if err != nil {
		return nil, err
	}

	unitEcon, err := ComputeUnitEconomics(deal.UpfrontCash, deal.DeferredCash, cfg.Team.RetentionRate, gtm.BlendedCAC)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Deal:          deal,
		Channels:      funnels,
		GTM:           gtm,
		Commission:    commission,
		PnL:           pnl,
		UnitEconomics: unitEcon,
		ConfigHash:    cfg.Hash(),
		EvaluatedAt:   time.Now().UTC(),
	}, nil
}

// EvaluateDeal prices a single deal without any channel context: the
// canonical cash split, the per-deal commission payouts, and the unit
// economics at a caller-supplied acquisition cost. Used for "what does one
// sale pay out" previews.
func EvaluateDeal(cfg ScenarioConfig, costPerSale decimal.Decimal) (*DealPreview, error) {
	cfg = cfg.Normalize()

	deal, err := ResolveDealEconomics(cfg.Deal)
	if err != nil {
		return nil, err
	}
	commission, err := ComputeCommissions(ModePerDeal, decimal.NewFromInt(1), cfg.Compensation, deal)
	if err != nil {
		return nil, err
	}
	unitEcon, err := ComputeUnitEconomics(deal.UpfrontCash, deal.DeferredCash, cfg.Team.RetentionRate, costPerSale)
	if err != nil {
		return nil, err
	}
	return &DealPreview{
		Deal:          deal,
		Commission:    commission,
		UnitEconomics: unitEcon,
	}, nil
}

// DealPreview is the per-deal slice of a snapshot.
type DealPreview struct {
	Deal          DealEconomics    `json:"deal_economics"`
	Commission    CommissionResult `json:"commission"`
	UnitEconomics UnitEconomics    `json:"unit_economics"`
}
